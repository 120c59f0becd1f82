package natsutil

import (
	"testing"

	"github.com/nats-io/nats.go"
)

func TestHeaderCarrier(t *testing.T) {
	c := &natsHeaderCarrier{}
	if c.Get("traceparent") != "" {
		t.Fatal("empty carrier should return empty value")
	}
	if c.Keys() != nil {
		t.Fatal("empty carrier should have no keys")
	}

	c.Set("traceparent", "00-abc-def-01")
	if c.Get("traceparent") != "00-abc-def-01" {
		t.Fatalf("got %q", c.Get("traceparent"))
	}
	if len(c.Keys()) != 1 {
		t.Fatalf("expected 1 key, got %v", c.Keys())
	}
}

func TestHeaderCarrierOverMsg(t *testing.T) {
	msg := &nats.Msg{Header: nats.Header{"X-Trace": []string{"v"}}}
	c := (*natsHeaderCarrier)(msg)
	if c.Get("X-Trace") != "v" {
		t.Fatal("carrier must read existing headers")
	}
	c.Set("Other", "w")
	if msg.Header.Get("Other") != "w" {
		t.Fatal("carrier must write through to the message")
	}
}
