package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/astrolearn/app/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	replies []string
	errs    []error
	calls   int
	last    string
	system  string
}

func (g *scriptedGenerator) Generate(ctx context.Context, systemInstruction, message string) (string, error) {
	i := g.calls
	g.calls++
	g.last = message
	g.system = systemInstruction

	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.replies) {
		return g.replies[i], nil
	}
	return "", nil
}

func testPolicy() backoff.Policy {
	return backoff.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 2}
}

func TestReply(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"  Mars est la quatrième planète.  "}}
	r := NewResponder(gen, testPolicy())

	reply, err := r.Reply(context.Background(), "  Parle-moi de Mars ")
	require.NoError(t, err)
	assert.Equal(t, "Mars est la quatrième planète.", reply)
	assert.Equal(t, "Parle-moi de Mars", gen.last)
	assert.Equal(t, SystemInstruction, gen.system)
	assert.Equal(t, 1, gen.calls)
}

func TestReply_RetriesFailures(t *testing.T) {
	gen := &scriptedGenerator{
		errs:    []error{errors.New("unavailable"), nil},
		replies: []string{"", "Bonjour"},
	}
	r := NewResponder(gen, testPolicy())

	reply, err := r.Reply(context.Background(), "Salut")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", reply)
	assert.Equal(t, 2, gen.calls)
}

func TestReply_GivesUp(t *testing.T) {
	failure := errors.New("quota exceeded")
	gen := &scriptedGenerator{errs: []error{failure, failure, failure, failure}}
	r := NewResponder(gen, testPolicy())

	_, err := r.Reply(context.Background(), "Salut")
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 3, gen.calls)
}

func TestReply_EmptyReplyIsAnError(t *testing.T) {
	gen := &scriptedGenerator{}
	r := NewResponder(gen, testPolicy())

	_, err := r.Reply(context.Background(), "Salut")
	assert.ErrorIs(t, err, ErrEmptyReply)
	assert.Equal(t, 3, gen.calls)
}

func TestReply_RejectsInput(t *testing.T) {
	gen := &scriptedGenerator{}
	r := NewResponder(gen, testPolicy())

	_, err := r.Reply(context.Background(), " \n ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = r.Reply(context.Background(), strings.Repeat("a", MaxMessageLength+1))
	assert.ErrorIs(t, err, ErrMessageTooLong)

	assert.Zero(t, gen.calls)
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.Error(t, err)
}
