package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/foxseedlab/videoqa/internal/chat"
	"github.com/foxseedlab/videoqa/internal/config"
	"github.com/foxseedlab/videoqa/internal/discord"
	"github.com/foxseedlab/videoqa/internal/search"
)

type mockAsker struct {
	result    chat.Result
	questions []string
}

func (m *mockAsker) Ask(_ context.Context, question string) chat.Result {
	m.questions = append(m.questions, question)
	m.result.Question = question
	return m.result
}

type recordedEvent struct {
	ephemeral []string
	deferred  int
	edits     []string
	editErr   error
}

func (r *recordedEvent) event(guildID, command, question string) discord.SlashCommandEvent {
	return discord.SlashCommandEvent{
		GuildID:     guildID,
		CommandName: command,
		UserID:      "user-1",
		Options:     map[string]string{optionQuestion: question},
		RespondEphemeral: func(content string) error {
			r.ephemeral = append(r.ephemeral, content)
			return nil
		},
		Defer: func() error {
			r.deferred++
			return nil
		},
		EditResponse: func(content string) error {
			r.edits = append(r.edits, content)
			err := r.editErr
			r.editErr = nil
			return err
		},
	}
}

func newTestHandler(asker *mockAsker) *Handler {
	return NewHandler(&config.Config{DiscordGuildID: "guild-1"}, asker)
}

func TestHandleSlashCommand_WrongGuild(t *testing.T) {
	asker := &mockAsker{}
	rec := &recordedEvent{}
	newTestHandler(asker).HandleSlashCommand(rec.event("guild-2", commandAsk, "cats?"))

	if len(rec.ephemeral) != 1 || rec.ephemeral[0] != messageEphemeralWrongGuild {
		t.Fatalf("unexpected response: %v", rec.ephemeral)
	}
	if len(asker.questions) != 0 {
		t.Fatal("expected no question to be asked")
	}
}

func TestHandleSlashCommand_UnknownCommand(t *testing.T) {
	rec := &recordedEvent{}
	newTestHandler(&mockAsker{}).HandleSlashCommand(rec.event("guild-1", "other", "cats?"))

	if len(rec.ephemeral) != 1 || rec.ephemeral[0] != messageEphemeralUnknownCommand {
		t.Fatalf("unexpected response: %v", rec.ephemeral)
	}
}

func TestHandleSlashCommand_EmptyQuestion(t *testing.T) {
	rec := &recordedEvent{}
	newTestHandler(&mockAsker{}).HandleSlashCommand(rec.event("guild-1", commandAsk, "   "))

	if len(rec.ephemeral) != 1 || rec.ephemeral[0] != messageEphemeralEmptyQuestion {
		t.Fatalf("unexpected response: %v", rec.ephemeral)
	}
	if rec.deferred != 0 {
		t.Fatal("expected no deferral for empty question")
	}
}

func TestHandleSlashCommand_AnswersWithSources(t *testing.T) {
	var excerpts []search.Excerpt
	for i, title := range []string{"One", "Two", "Three", "Four"} {
		excerpts = append(excerpts, search.Excerpt{
			VideoID:          int64(i + 1),
			Title:            title,
			URL:              "https://www.youtube.com/watch?v=aaaaaaaaaa" + string(rune('0'+i)),
			Timestamp:        "0:03",
			TimestampSeconds: 3,
		})
	}
	asker := &mockAsker{result: chat.Result{Answer: "Cats are great.", Excerpts: excerpts}}
	rec := &recordedEvent{}
	newTestHandler(asker).HandleSlashCommand(rec.event("guild-1", commandAsk, " cats? "))

	if rec.deferred != 1 {
		t.Fatalf("expected deferral, got %d", rec.deferred)
	}
	if len(asker.questions) != 1 || asker.questions[0] != "cats?" {
		t.Fatalf("unexpected questions: %v", asker.questions)
	}
	if len(rec.edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(rec.edits))
	}
	want := "Cats are great.\n\n" + messageSourcesTitle + "\n" +
		"1. [One](https://www.youtube.com/watch?v=aaaaaaaaaa0&t=3s) (0:03)\n" +
		"2. [Two](https://www.youtube.com/watch?v=aaaaaaaaaa1&t=3s) (0:03)\n" +
		"3. [Three](https://www.youtube.com/watch?v=aaaaaaaaaa2&t=3s) (0:03)"
	if rec.edits[0] != want {
		t.Fatalf("unexpected reply:\n got %q\nwant %q", rec.edits[0], want)
	}
}

func TestHandleSlashCommand_EditFailureSendsNotice(t *testing.T) {
	rec := &recordedEvent{editErr: errors.New("unknown interaction")}
	newTestHandler(&mockAsker{result: chat.Result{Answer: "a"}}).HandleSlashCommand(rec.event("guild-1", commandAsk, "q"))

	if len(rec.edits) != 2 || rec.edits[1] != messageAskFailed {
		t.Fatalf("unexpected edits: %v", rec.edits)
	}
}

func TestFormatReply_TruncatesAnswerKeepingSources(t *testing.T) {
	res := chat.Result{
		Answer:   strings.Repeat("a", 3000),
		Excerpts: []search.Excerpt{{Title: "One", URL: "https://youtu.be/aaaaaaaaaaa", Timestamp: "1:05", TimestampSeconds: 65}},
	}
	got := formatReply(res)
	if n := len([]rune(got)); n != discord.MessageContentLimit {
		t.Fatalf("expected %d characters, got %d", discord.MessageContentLimit, n)
	}
	if !strings.HasSuffix(got, "1. [One](https://youtu.be/aaaaaaaaaaa?t=65s) (1:05)") {
		t.Fatalf("expected sources to survive truncation, got suffix %q", got[len(got)-80:])
	}
	if !strings.Contains(got, messageTruncated+"\n\n") {
		t.Fatal("expected truncation marker before sources")
	}
}

func TestFormatReply_NoExcerpts(t *testing.T) {
	if got := formatReply(chat.Result{Answer: "Sorry."}); got != "Sorry." {
		t.Fatalf("unexpected reply: %q", got)
	}
}
