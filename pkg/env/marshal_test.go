package env

import (
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string          `env:"NAME"`
	Port    int             `env:"PORT,required"`
	Ratio   float64         `env:"RATIO"`
	Enabled *bool           `env:"ENABLED"`
	TTL     time.Duration   `env:"TTL"`
	Offsets []time.Duration `env:"OFFSETS"`
	Guests  []int64         `env:"GUESTS" envSeparator:";"`
	Skipped string
	hidden  string `env:"HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	off := false
	in := sample{
		Name:    "aide",
		Port:    8080,
		Enabled: &off,
		TTL:     10 * time.Minute,
		Offsets: []time.Duration{15 * time.Minute, 0},
		Guests:  []int64{7, 9},
		Skipped: "x",
		hidden:  "y",
	}

	out, err := MarshalEnv(&in)
	require.NoError(t, err)
	assert.Equal(t, "NAME=aide\nPORT=8080\nENABLED=false\nTTL=10m0s\nOFFSETS=15m0s,0s\nGUESTS=7;9\n", out)
}

func TestMarshalEnv_AllZero(t *testing.T) {
	out, err := MarshalEnv(&sample{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMarshalEnv_RejectsNonStruct(t *testing.T) {
	for _, in := range []any{sample{}, (*sample)(nil), new(int)} {
		_, err := MarshalEnv(in)
		assert.ErrorIs(t, err, ErrNotStructPointer)
	}
}

func TestMarshalEnv_QuotedValuesLoadBack(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"plain", "London"},
		{"spaces", "New York"},
		{"hash", "abc#def"},
		{"quotes", `say "hi"`},
		{"dollar", "pa$$word"},
		{"backslash", `C:\aide`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := MarshalEnv(&sample{Name: tt.value})
			require.NoError(t, err)

			loaded, err := godotenv.Unmarshal(out)
			require.NoError(t, err)
			assert.Equal(t, tt.value, loaded["NAME"])
		})
	}
}
