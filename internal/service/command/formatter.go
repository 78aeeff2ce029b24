package command

import (
	"strings"
)

// reply builds a markdown answer one block at a time. Blocks are separated
// by a blank line.
type reply struct {
	blocks []string
}

func newReply(title string) *reply {
	return &reply{blocks: []string{"⚙️ **" + title + "**"}}
}

func (r *reply) add(block string) *reply {
	if block = strings.TrimRight(block, "\n"); block != "" {
		r.blocks = append(r.blocks, block)
	}
	return r
}

func (r *reply) text(s string) *reply {
	return r.add(s)
}

func (r *reply) label(name, value string) *reply {
	return r.add("**" + name + "**  ›  `" + value + "`")
}

func (r *reply) usage(syntax string) *reply {
	return r.add("**Usage**:\n```" + syntax + "```")
}

func (r *reply) examples(lines ...string) *reply {
	var b strings.Builder
	b.WriteString("**Examples**:")
	for _, l := range lines {
		b.WriteString("\n`" + l + "`")
	}
	return r.add(b.String())
}

func (r *reply) section(emoji, title string, items []string) *reply {
	return r.add(emoji + " **" + title + "**\n" + bullets(items))
}

func (r *reply) list(items []string) *reply {
	return r.add(bullets(items))
}

func (r *reply) String() string {
	return strings.Join(r.blocks, "\n\n") + "\n"
}

func bullets(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("› " + item + "\n")
	}
	return b.String()
}

// done renders a one-line confirmation.
func done(message string) string {
	return "✅ **" + message + "**\n"
}
