package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/planassist/internal/api"
	"github.com/diogo/planassist/internal/chat"
	"github.com/diogo/planassist/internal/config"
	apierrors "github.com/diogo/planassist/internal/errors"
	"github.com/diogo/planassist/internal/models"
	"github.com/diogo/planassist/internal/render"
	"github.com/diogo/planassist/internal/tui"
)

type fakeTUI struct {
	called     bool
	opts       tui.ChatOptions
	controller *chat.Controller
	err        error
}

func (f *fakeTUI) RunChat(ctx context.Context, controller *chat.Controller, opts tui.ChatOptions) error {
	f.called = true
	f.controller = controller
	f.opts = opts
	return f.err
}

type testEnv struct {
	deps    *Dependencies
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	tui     *fakeTUI
	copied  []string
	homeDir string
}

// newTestEnv isolates HOME and API_URL and wires in-memory streams.
func newTestEnv(t *testing.T, client api.ChatClientInterface) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(render.EnvGlamourStyle, "")
	t.Cleanup(func() { render.SetTUITheme(render.TokyoNightTheme.Name) })

	env := &testEnv{
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
		tui:     &fakeTUI{},
		homeDir: home,
	}
	env.deps = &Dependencies{
		Client: client,
		TUI:    env.tui,
		In:     strings.NewReader(""),
		Out:    env.out,
		Err:    env.errOut,
		CopyToClipboard: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRoot_Version(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{})

	for _, flag := range []string{"-v", "--version"} {
		env.out.Reset()
		if err := env.run(flag); err != nil {
			t.Fatalf("%s: %v", flag, err)
		}
		if !strings.Contains(env.out.String(), "planassist "+Version) {
			t.Errorf("%s output = %q", flag, env.out.String())
		}
	}
	if env.tui.called {
		t.Error("version must not start the TUI")
	}
}

func TestRoot_NoArgsStartsChat(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{})

	if err := env.run(); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !env.tui.called {
		t.Fatal("expected the chat TUI to start")
	}
	if env.tui.opts.APIHost != "localhost:8000" {
		t.Errorf("APIHost = %q, want default host", env.tui.opts.APIHost)
	}
	if env.tui.opts.Bubble.Sources != tui.SourcesAssistantOnly {
		t.Errorf("Sources = %v, want assistant-only", env.tui.opts.Bubble.Sources)
	}
	if env.tui.controller == nil || env.tui.controller.Pending() {
		t.Error("controller should be fresh and idle")
	}
}

func TestChatCmd_APIURLPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		args     []string
		wantHost string
	}{
		{
			name:     "default",
			args:     []string{"chat"},
			wantHost: "localhost:8000",
		},
		{
			name:     "environment",
			env:      "http://env.example:9000",
			args:     []string{"chat"},
			wantHost: "env.example:9000",
		},
		{
			name:     "flag beats environment",
			env:      "http://env.example:9000",
			args:     []string{"chat", "--api-url", "https://flag.example/"},
			wantHost: "flag.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &api.MockChatClient{})
			t.Setenv(config.EnvAPIURL, tt.env)

			if err := env.run(tt.args...); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if env.tui.opts.APIHost != tt.wantHost {
				t.Errorf("APIHost = %q, want %q", env.tui.opts.APIHost, tt.wantHost)
			}
		})
	}
}

func TestChatCmd_ConfigDrivesBubbleOptions(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{})

	cfg := config.DefaultConfig()
	cfg.SourcesForUser = true
	cfg.Markdown.Enabled = true
	cfg.TUITheme = "nord"
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	if err := env.run("chat"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if env.tui.opts.Bubble.Sources != tui.SourcesAll {
		t.Error("sources_for_user should select SourcesAll")
	}
	if !env.tui.opts.Bubble.Markdown {
		t.Error("markdown.enabled should turn on markdown rendering")
	}
	if render.GetTUITheme().Name != "nord" {
		t.Errorf("theme = %q, want nord", render.GetTUITheme().Name)
	}
}

func TestAsk_PrintsConversation(t *testing.T) {
	mock := &api.MockChatClient{Response: &models.ChatResponse{Response: "Deductible is $500", Sources: []string{"plan-a.pdf", "plan-b.pdf"}}}
	env := newTestEnv(t, mock)

	if err := env.run("  What is the deductible?  "); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if mock.LastMessage() != "What is the deductible?" {
		t.Errorf("sent %q, want trimmed question", mock.LastMessage())
	}
	out := env.out.String()
	for _, want := range []string{"What is the deductible?", "Deductible is $500", "Sources:", "plan-a.pdf", "plan-b.pdf"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "What is the deductible?") > strings.Index(out, "Deductible is $500") {
		t.Error("user message should come before the reply")
	}
	if env.tui.called {
		t.Error("a question must not start the TUI")
	}
}

func TestAsk_Raw(t *testing.T) {
	mock := &api.MockChatClient{Response: &models.ChatResponse{Response: "X", Sources: []string{"A", "B"}}}
	env := newTestEnv(t, mock)

	if err := env.run("ask", "--raw", "hello"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	want := "X\n\nSources:\n- A\n- B\n"
	if env.out.String() != want {
		t.Errorf("output = %q, want %q", env.out.String(), want)
	}
}

func TestAsk_RawWithoutSources(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{Response: &models.ChatResponse{Response: "plain"}})

	if err := env.run("ask", "--raw", "hello"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if env.out.String() != "plain\n" {
		t.Errorf("output = %q", env.out.String())
	}
}

func TestAsk_FailurePrintsApology(t *testing.T) {
	mock := &api.MockChatClient{Err: apierrors.NewNetworkError(models.EndpointChat, errors.New("connection refused"))}
	env := newTestEnv(t, mock)

	err := env.run("ask", "--raw", "hello")
	if err == nil {
		t.Fatal("expected an error for a failed request")
	}
	if !errors.Is(err, apierrors.ErrRequestFailed) {
		t.Errorf("error %v should match ErrRequestFailed", err)
	}
	if strings.TrimSpace(env.out.String()) != models.ApologyText {
		t.Errorf("output = %q, want apology", env.out.String())
	}
	if len(env.copied) != 0 {
		t.Error("failed replies must not be copied")
	}
}

func TestAsk_QuestionSources(t *testing.T) {
	dir := t.TempDir()
	questionFile := filepath.Join(dir, "q.txt")
	if err := os.WriteFile(questionFile, []byte("from file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		stdin   string
		piped   bool
		want    string
		wantErr error
	}{
		{name: "argument", args: []string{"ask", "from arg"}, want: "from arg"},
		{name: "file", args: []string{"ask", "-f", questionFile}, want: "from file"},
		{name: "root file flag", args: []string{"-f", questionFile}, want: "from file"},
		{name: "stdin", args: []string{"ask"}, stdin: "from stdin", piped: true, want: "from stdin"},
		{name: "root stdin", args: []string{}, stdin: "from stdin", piped: true, want: "from stdin"},
		{name: "nothing", args: []string{"ask"}, wantErr: apierrors.ErrEmptyMessage},
		{name: "whitespace", args: []string{"ask", "   "}, wantErr: apierrors.ErrEmptyMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &api.MockChatClient{Response: &models.ChatResponse{Response: "ok"}}
			env := newTestEnv(t, mock)
			env.deps.In = strings.NewReader(tt.stdin)
			env.deps.StdinPiped = func() bool { return tt.piped }

			err := env.run(tt.args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if mock.Calls() != 0 {
					t.Error("no request should be sent")
				}
				return
			}
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if mock.LastMessage() != tt.want {
				t.Errorf("sent %q, want %q", mock.LastMessage(), tt.want)
			}
		})
	}
}

func TestAsk_MissingFile(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{})
	if err := env.run("ask", "-f", filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestAsk_Copy(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{Response: &models.ChatResponse{Response: "copied text"}})

	if err := env.run("ask", "--copy", "hello"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if len(env.copied) != 1 || env.copied[0] != "copied text" {
		t.Errorf("copied = %v", env.copied)
	}
	if !strings.Contains(env.errOut.String(), "Copied to clipboard") {
		t.Errorf("stderr = %q", env.errOut.String())
	}
}

func TestAsk_CopyFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{Response: &models.ChatResponse{Response: "x"}})
	env.deps.CopyToClipboard = func(string) error { return errors.New("no xclip") }

	if err := env.run("ask", "--copy", "hello"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(env.errOut.String(), "no xclip") {
		t.Errorf("stderr = %q", env.errOut.String())
	}
}

func TestAsk_InvalidAPIURL(t *testing.T) {
	env := newTestEnv(t, nil)
	t.Setenv(config.EnvAPIURL, "ftp://example.com")

	err := env.run("ask", "hello")
	if !errors.Is(err, apierrors.ErrInvalidBaseURL) {
		t.Errorf("error = %v, want ErrInvalidBaseURL", err)
	}
}

func TestAsk_AgainstHTTPBackend(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Covered at 80%","sources":["summary.pdf"]}`))
	}))
	defer server.Close()

	env := newTestEnv(t, nil)
	if err := env.run("ask", "--raw", "--api-url", server.URL+"/", "Is physio covered?"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if gotBody["message"] != "Is physio covered?" {
		t.Errorf("message = %v", gotBody["message"])
	}
	if hist, ok := gotBody["chat_history"].([]interface{}); !ok || len(hist) != 0 {
		t.Errorf("chat_history = %#v, want []", gotBody["chat_history"])
	}
	if env.out.String() != "Covered at 80%\n\nSources:\n- summary.pdf\n" {
		t.Errorf("output = %q", env.out.String())
	}
}

func TestConfig_SetShowPath(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{})

	if err := env.run("config", "set", "api_url", "http://backend.internal:8080/"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if !strings.Contains(env.out.String(), "api_url = http://backend.internal:8080") {
		t.Errorf("set output = %q", env.out.String())
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIURL != "http://backend.internal:8080" {
		t.Errorf("saved api_url = %q", cfg.APIURL)
	}

	env.out.Reset()
	if err := env.run("config"); err != nil {
		t.Fatalf("config: %v", err)
	}
	show := env.out.String()
	for _, want := range []string{"http://backend.internal:8080/chat", "sources_for_user", "markdown.enabled", "tokyonight"} {
		if !strings.Contains(show, want) {
			t.Errorf("config output missing %q:\n%s", want, show)
		}
	}

	env.out.Reset()
	if err := env.run("config", "path"); err != nil {
		t.Fatalf("config path: %v", err)
	}
	wantPath := filepath.Join(env.homeDir, ".planassist", "config.json")
	if strings.TrimSpace(env.out.String()) != wantPath {
		t.Errorf("path = %q, want %q", env.out.String(), wantPath)
	}
}

func TestConfig_SetRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "model", "x"},
		{"bad url", "api_url", "localhost"},
		{"bad bool", "verbose", "maybe"},
		{"unknown theme", "tui_theme", "solarized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &api.MockChatClient{})
			if err := env.run("config", "set", tt.key, tt.value); err == nil {
				t.Errorf("config set %s %s should fail", tt.key, tt.value)
			}
		})
	}
}

func TestConfig_ShowsInvalidURL(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{})
	t.Setenv(config.EnvAPIURL, "not a url")

	if err := env.run("config"); err != nil {
		t.Fatalf("config should still print with a bad URL: %v", err)
	}
	if !strings.Contains(env.out.String(), "invalid") {
		t.Errorf("output should flag the URL:\n%s", env.out.String())
	}
}

func TestSetup_BrokenConfigWarns(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{})
	dir := filepath.Join(env.homeDir, ".planassist")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := env.run("chat"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(env.errOut.String(), "Warning") {
		t.Errorf("expected a warning, stderr = %q", env.errOut.String())
	}
	if env.tui.opts.APIHost != "localhost:8000" {
		t.Errorf("defaults should apply, APIHost = %q", env.tui.opts.APIHost)
	}
}

func TestSetup_WritesLogFile(t *testing.T) {
	env := newTestEnv(t, &api.MockChatClient{})
	logPath := filepath.Join(t.TempDir(), "logs", "planassist.log")

	if err := env.run("--verbose", "--log-file", logPath, "chat"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "[chat]") || !strings.Contains(string(data), "starting chat session") {
		t.Errorf("log content = %q", string(data))
	}
}

func TestHostOf(t *testing.T) {
	tests := map[string]string{
		"http://localhost:8000":     "localhost:8000",
		"https://api.example.com/x": "api.example.com",
		"garbage":                   "garbage",
	}
	for in, want := range tests {
		if got := hostOf(in); got != want {
			t.Errorf("hostOf(%q) = %q, want %q", in, got, want)
		}
	}
}
