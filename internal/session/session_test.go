package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_InitialHistory(t *testing.T) {
	sess := newSession("https://example.com", "Example Domain", nil)

	history := sess.History()
	require.Len(t, history, 1)
	assert.Equal(t, RoleSystem, history[0].Role)
	assert.Equal(t, "Started new conversation about: Example Domain", history[0].Content)
	assert.Equal(t, "https://example.com", sess.URL())
	assert.Equal(t, "Example Domain", sess.Title())
}

func TestSession_Append(t *testing.T) {
	sess := newSession("https://example.com", "Example Domain", nil)

	sess.AppendHuman("what is this page?")
	sess.AppendAI("a placeholder domain")

	history := sess.History()
	require.Len(t, history, 3)
	assert.Equal(t, HumanMessage("what is this page?"), history[1])
	assert.Equal(t, AIMessage("a placeholder domain"), history[2])
}

func TestSession_HistoryIsACopy(t *testing.T) {
	sess := newSession("https://example.com", "Example Domain", nil)
	sess.AppendHuman("original")

	history := sess.History()
	history[1].Content = "mutated"

	assert.Equal(t, "original", sess.History()[1].Content)
}

func TestSession_Truncate(t *testing.T) {
	sess := newSession("https://example.com", "Example Domain", nil)
	for i := 0; i < 13; i++ {
		sess.AppendHuman(fmt.Sprintf("question %d", i))
		sess.AppendAI(fmt.Sprintf("answer %d", i))
	}
	require.Len(t, sess.History(), 27)

	sess.Truncate(20)

	history := sess.History()
	require.Len(t, history, 20)
	assert.Equal(t, RoleSystem, history[0].Role)
	assert.Equal(t, "Started new conversation about: Example Domain", history[0].Content)
	// The last 19 of the original 27 survive: everything from "answer 3" on.
	assert.Equal(t, AIMessage("answer 3"), history[1])
	assert.Equal(t, AIMessage("answer 12"), history[19])
}

func TestSession_TruncateNoOpWhenWithinCap(t *testing.T) {
	sess := newSession("https://example.com", "Example Domain", nil)
	sess.AppendHuman("q")
	sess.AppendAI("a")

	sess.Truncate(20)

	assert.Len(t, sess.History(), 3)
}

func TestSession_Reset(t *testing.T) {
	sess := newSession("https://example.com", "Example Domain", nil)
	sess.AppendHuman("q")
	sess.AppendAI("a")

	sess.reset()

	history := sess.History()
	require.Len(t, history, 1)
	assert.Equal(t, RoleSystem, history[0].Role)
	assert.Equal(t, "Chat history cleared. Restarted conversation about: Example Domain", history[0].Content)
}
