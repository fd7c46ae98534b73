// Package chatbot answers visitor questions about astronomy through a hosted
// language model.
package chatbot

import (
	"context"
	"errors"
	"strings"

	"github.com/lysyi3m/astrolearn/app/backoff"
)

const MaxMessageLength = 4000

var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message is too long")
	ErrEmptyReply     = errors.New("model returned an empty reply")
)

// SystemInstruction frames every conversation
const SystemInstruction = "Tu es un astrophysicien français passionné qui répond aux visiteurs d'un " +
	"catalogue d'astronomie. Réponds en français, de façon claire et concise, et reste sur des " +
	"sujets liés à l'astronomie et à l'espace."

// Generator produces one model reply for a message
type Generator interface {
	Generate(ctx context.Context, systemInstruction, message string) (string, error)
}

type Responder struct {
	generator Generator
	policy    backoff.Policy
}

func NewResponder(generator Generator, policy backoff.Policy) *Responder {
	return &Responder{
		generator: generator,
		policy:    policy,
	}
}

// Reply returns the model answer to message, retrying failed calls
func (r *Responder) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if len([]rune(message)) > MaxMessageLength {
		return "", ErrMessageTooLong
	}

	return backoff.DoValue(ctx, r.policy, "chatbot reply", func(ctx context.Context) (string, error) {
		reply, err := r.generator.Generate(ctx, SystemInstruction, message)
		if err != nil {
			return "", err
		}
		reply = strings.TrimSpace(reply)
		if reply == "" {
			return "", ErrEmptyReply
		}
		return reply, nil
	})
}
