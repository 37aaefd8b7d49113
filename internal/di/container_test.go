package di_test

import (
	"testing"

	"github.com/fd1az/superboost/internal/di"
)

type greeter struct{ name string }

func TestRegisterToken_LazySingleton(t *testing.T) {
	c := di.NewContainer()
	c.Register("name", "pool")

	calls := 0
	tok := di.NewToken[*greeter]("test.Greeter")
	di.RegisterToken(c, tok, func(sr di.ServiceRegistry) *greeter {
		calls++
		return &greeter{name: sr.Get("name").(string)}
	})

	if calls != 0 {
		t.Fatalf("factory ran before first Get")
	}

	a := di.GetToken(c, tok)
	b := di.GetToken(c, tok)
	if a != b {
		t.Errorf("expected the same instance on every Get")
	}
	if calls != 1 {
		t.Errorf("factory calls = %d, want 1", calls)
	}
	if a.name != "pool" {
		t.Errorf("name = %q", a.name)
	}
}

func TestGet_UnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for unregistered service")
		}
	}()
	di.NewContainer().Get("missing")
}
