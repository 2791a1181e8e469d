package quote

const helpColor = 0xff677d

const helpText = "Quote allows you to quote messages in a better way!\n" +
	"\n" +
	"> `> <text>`\n" +
	"Quote a message that contains `<text>` from the same channel and replace your message with an embed.\n" +
	"\n" +
	"> `<URL>`\n" +
	"Quote a message by the `<URL>` and replace your message with an embed.\n" +
	"\n" +
	"> `/quote <method> <value>`\n" +
	"Quote a message via either of the above methods with a slash command."

// HelpPrefix triggers the help card from a plain message.
const HelpPrefix = "$help"

// HelpCard describes how to request quotes.
func HelpCard() Card {
	return Card{
		Color:       helpColor,
		Title:       "Quote Help",
		Description: helpText,
	}
}
