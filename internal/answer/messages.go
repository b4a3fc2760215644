package answer

const (
	messageNoExcerpts = "Sorry, I couldn't find anything related to your question in the video library. " +
		"Try adding more related videos to the library, or rephrase your question."

	messagePreambleFormat = "Based on the video library, here is what I found about \"%s\":\n\n"
	messageExcerptFormat  = "**%d. %s** (time point: %s)\n"
	messageContextFormat  = "Excerpt: %s\n\n"
	messageClosing        = "Click a time point to jump straight to that part of the video."

	systemInstruction = "You are a video Q&A assistant. Answer the user's question using the provided video excerpts. " +
		"Be accurate and helpful, and cite the specific videos and time points you rely on. " +
		"If the excerpts are not enough to answer the question, say so honestly."

	promptQuestionFormat  = "Question: %s\n\n"
	promptExcerptsHeader  = "Relevant video excerpts:\n"
	promptExcerptFormat   = "%d. Title: %s\n   Time point: %s\n   Excerpt: %s\n\n"
	promptNoExcerptsFound = "No relevant video excerpts found."
)
