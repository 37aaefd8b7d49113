package monolith

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fd1az/superboost/internal/config"
	"github.com/fd1az/superboost/internal/di"
	"github.com/fd1az/superboost/internal/logger"
)

type fakeModule struct {
	name       string
	order      *[]string
	startErr   error
	registered bool
}

func (m *fakeModule) RegisterServices(c di.Container) error {
	m.registered = true
	c.Register(m.name, m)
	return nil
}

func (m *fakeModule) Startup(ctx context.Context, mono Monolith) error {
	*m.order = append(*m.order, m.name)
	return m.startErr
}

func newTestApp(t *testing.T) App {
	t.Helper()
	cfg := &config.Config{Chain: config.ChainConfig{HTTPURL: "http://127.0.0.1:1"}}
	a, err := New(context.Background(), cfg, logger.New(io.Discard, logger.LevelError, "test", nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestStartModules_InOrderAndStopsOnFailure(t *testing.T) {
	a := newTestApp(t)

	var order []string
	first := &fakeModule{name: "first", order: &order}
	second := &fakeModule{name: "second", order: &order, startErr: errors.New("boom")}
	third := &fakeModule{name: "third", order: &order}

	if err := a.RegisterModules(first, second, third); err != nil {
		t.Fatalf("RegisterModules: %v", err)
	}
	if a.Services().Get("second") != second {
		t.Errorf("module services not registered")
	}

	err := a.StartModules(context.Background(), first, second, third)
	if err == nil || !strings.Contains(err.Error(), "start monolith") {
		t.Fatalf("err = %v", err)
	}
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("order = %v", order)
	}
}

func TestNew_SeedsSharedServices(t *testing.T) {
	a := newTestApp(t)
	for _, name := range []string{"config", "logger", "ethClient"} {
		if a.Services().Get(name) == nil {
			t.Errorf("%s not registered", name)
		}
	}
}
