package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/alexanderramin/tasktamer/internal/llm"
)

// ErrScriptExhausted is returned once every scripted reply has been used.
var ErrScriptExhausted = errors.New("scripted client: no replies left")

type scriptedReply struct {
	payload []byte
	err     error
}

// ScriptedClient is an llm.Client that replays queued replies in order and
// records every request it receives. Safe for concurrent use.
type ScriptedClient struct {
	mu       sync.Mutex
	replies  []scriptedReply
	requests []llm.CompletionRequest
	// Block, when set, is received from before each reply is returned.
	Block chan struct{}
}

// NewScriptedClient queues one {"text": ...} reply per text.
func NewScriptedClient(texts ...string) *ScriptedClient {
	c := &ScriptedClient{}
	for _, t := range texts {
		c.ReplyText(t)
	}
	return c
}

// ReplyText queues a {"text": ...} payload.
func (c *ScriptedClient) ReplyText(text string) *ScriptedClient {
	payload, _ := json.Marshal(map[string]string{"text": text})
	return c.ReplyPayload(payload)
}

// ReplyPayload queues a raw payload.
func (c *ScriptedClient) ReplyPayload(payload []byte) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, scriptedReply{payload: payload})
	return c
}

// ReplyError queues a failure.
func (c *ScriptedClient) ReplyError(err error) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, scriptedReply{err: err})
	return c
}

func (c *ScriptedClient) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	var next scriptedReply
	ok := len(c.replies) > 0
	if ok {
		next = c.replies[0]
		c.replies = c.replies[1:]
	}
	block := c.Block
	c.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, llm.ErrTimeout
		}
	}
	if !ok {
		return nil, ErrScriptExhausted
	}
	if next.err != nil {
		return nil, next.err
	}
	return &llm.CompletionResponse{Payload: next.payload, Model: req.Model}, nil
}

func (c *ScriptedClient) Available(context.Context) bool {
	return true
}

// Requests returns a copy of the requests seen so far.
func (c *ScriptedClient) Requests() []llm.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]llm.CompletionRequest(nil), c.requests...)
}

// Pending reports how many scripted replies remain.
func (c *ScriptedClient) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.replies)
}
