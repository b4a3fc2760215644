package bot

import "fmt"

const (
	commandAsk        = "ask"
	optionQuestion    = "question"
	commandAskDesc    = "Ask a question about the videos in the library."
	optionQuestionDes = "What do you want to know?"

	messageEphemeralWrongGuild     = ":warning: **This command cannot be used in this server.**"
	messageEphemeralUnknownCommand = ":warning: **Unknown command.**"
	messageEphemeralEmptyQuestion  = ":warning: **Please enter a question.**"
	messageAskFailed               = ":warning: **Something went wrong while answering your question.**"

	messageSourcesTitle = ":movie_camera: **Sources**"
	messageSourceFormat = "%d. [%s](%s) (%s)"
	messageTruncated    = "…"
)

func sourceLine(index int, title, link, timestamp string) string {
	return fmt.Sprintf(messageSourceFormat, index, title, link, timestamp)
}
