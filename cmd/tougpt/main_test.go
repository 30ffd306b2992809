package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"tougpt/pkg/api"
	"tougpt/pkg/chat"
	"tougpt/pkg/config"
)

type testEnv struct {
	t          *testing.T
	configPath string
	server     *httptest.Server

	mu        sync.Mutex
	questions []string
}

func newTestEnv(t *testing.T, answer func(question string) (int, api.AskResponse)) *testEnv {
	t.Helper()
	for _, name := range []string{"TOUGPT_SERVER_URL", "TOUGPT_API_KEY", "TOUGPT_TIMEOUT", "TOUGPT_STORAGE", "TOUGPT_LOG_LEVEL"} {
		t.Setenv(name, "")
	}

	env := &testEnv{t: t}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", func(w http.ResponseWriter, r *http.Request) {
		var req api.AskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		env.mu.Lock()
		env.questions = append(env.questions, req.Question)
		env.mu.Unlock()
		status, resp := answer(req.Question)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","timestamp":1700000000,"cache_size":3,"version":"1.0.0"}`))
	})
	env.server = httptest.NewServer(mux)
	t.Cleanup(env.server.Close)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.ServerURL = env.server.URL
	cfg.APIKey = "AIzaSyExampleExampleExample1234"
	cfg.Storage.Backend = config.StorageFile
	cfg.Storage.Path = filepath.Join(dir, "storage.json")
	cfg.LogFile = filepath.Join(dir, "logs", "tougpt.log")
	env.configPath = filepath.Join(dir, "config.json")
	if err := config.Save(env.configPath, cfg); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return env
}

func (e *testEnv) asked() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.questions)
}

func echoAnswer(question string) (int, api.AskResponse) {
	return http.StatusOK, api.AskResponse{Answer: "Answer to: " + question}
}

func (e *testEnv) run(stdin string, args ...string) (string, string, error) {
	e.t.Helper()
	a := newApp()
	a.stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	a.stdout, a.stderr = &stdout, &stderr

	cmd := newRootCmdWithApp(a)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, _, err := e.run("", args...)
	if err != nil {
		e.t.Fatalf("tougpt %s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t, echoAnswer)
	out := env.mustRun("version")

	if !strings.Contains(out, "tougpt version") {
		t.Errorf("Expected version line, got %q", out)
	}
}

func TestAskCommand(t *testing.T) {
	env := newTestEnv(t, echoAnswer)

	out := env.mustRun("ask", "Where", "is", "the", "library?")
	if out != "Answer to: Where is the library?\n" {
		t.Errorf("Unexpected answer %q", out)
	}

	list := env.mustRun("chats", "list")
	if !strings.Contains(list, "Where is the library?") || !strings.Contains(list, "2 messages") {
		t.Errorf("Expected the titled chat to be saved, got %q", list)
	}
}

func TestAskCommand_ReadsStdin(t *testing.T) {
	env := newTestEnv(t, echoAnswer)

	out, _, err := env.run("  question from a pipe \n", "ask")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if out != "Answer to: question from a pipe\n" {
		t.Errorf("Unexpected answer %q", out)
	}
}

func TestAskCommand_EmptyQuestion(t *testing.T) {
	env := newTestEnv(t, echoAnswer)

	if _, _, err := env.run("   \n", "ask"); err == nil {
		t.Fatal("Expected error for an empty question")
	}
	if n := env.asked(); n != 0 {
		t.Errorf("Expected no request, got %d", n)
	}
}

func TestAskCommand_TooLong(t *testing.T) {
	env := newTestEnv(t, echoAnswer)

	long := strings.Repeat("a", chat.MaxQuestionLength+1)
	if _, _, err := env.run("", "ask", long); err == nil {
		t.Fatal("Expected error for an overlong question")
	}
	if n := env.asked(); n != 0 {
		t.Errorf("Expected no request, got %d", n)
	}
}

func TestAskCommand_ServerError(t *testing.T) {
	env := newTestEnv(t, func(string) (int, api.AskResponse) {
		return http.StatusInternalServerError, api.AskResponse{Answer: "The model is overloaded", Error: true}
	})

	out, _, err := env.run("", "ask", "hello")
	if err == nil || err.Error() != "The model is overloaded" {
		t.Fatalf("Expected server error text, got %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}

	show := env.mustRun("chats", "show")
	if !strings.Contains(show, "You:\nhello") || !strings.Contains(show, "Assistant:\nThe model is overloaded") {
		t.Errorf("Expected both messages saved, got %q", show)
	}
}

func TestAskCommand_NewChat(t *testing.T) {
	env := newTestEnv(t, echoAnswer)

	env.mustRun("ask", "first")
	env.mustRun("ask", "--new", "second")

	list := env.mustRun("chats", "list")
	lines := strings.Split(strings.TrimSpace(list), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 chats, got %q", list)
	}
	if !strings.HasPrefix(lines[0], "*") || !strings.Contains(lines[0], "second") {
		t.Errorf("Expected the new chat first and active, got %q", lines[0])
	}
}

func TestChatsCommands(t *testing.T) {
	env := newTestEnv(t, echoAnswer)
	env.mustRun("ask", "first question")

	id := strings.TrimSpace(env.mustRun("chats", "new"))
	if id == "" {
		t.Fatal("Expected the new chat id")
	}

	out := env.mustRun("chats", "select", "2")
	if !strings.Contains(out, "first question") {
		t.Errorf("Expected switch message, got %q", out)
	}
	show := env.mustRun("chats", "show")
	if !strings.HasPrefix(show, "# first question") {
		t.Errorf("Expected the selected chat, got %q", show)
	}

	env.mustRun("chats", "delete", id)
	list := env.mustRun("chats", "list")
	if strings.Count(list, "\n") != 1 || !strings.Contains(list, "first question") {
		t.Errorf("Expected only the first chat, got %q", list)
	}

	if _, _, err := env.run("", "chats", "select", "nope"); err == nil {
		t.Error("Expected error for an unknown chat")
	}
}

func TestChatsClear(t *testing.T) {
	env := newTestEnv(t, echoAnswer)
	env.mustRun("ask", "something")

	out, _, err := env.run("n\n", "chats", "clear")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !strings.Contains(out, "Cancelled") {
		t.Errorf("Expected cancel, got %q", out)
	}

	out, stderr, err := env.run("y\n", "chats", "clear")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !strings.Contains(stderr, chat.ClearChatPrompt) {
		t.Errorf("Expected prompt on stderr, got %q", stderr)
	}
	if !strings.Contains(out, "Chat cleared") {
		t.Errorf("Expected clear, got %q", out)
	}

	show := env.mustRun("chats", "show")
	if strings.TrimSpace(show) != "# "+chat.DefaultTitle {
		t.Errorf("Expected empty chat with default title, got %q", show)
	}

	out = env.mustRun("chats", "clear", "--yes")
	if !strings.Contains(out, "already empty") {
		t.Errorf("Expected already empty, got %q", out)
	}
}

func TestConfigShowMasksKey(t *testing.T) {
	env := newTestEnv(t, echoAnswer)

	out := env.mustRun("config", "show")
	if strings.Contains(out, "AIzaSyExampleExampleExample1234") {
		t.Error("Expected API key to be masked")
	}
	if !strings.Contains(out, `"api_key": "AIza...1234"`) {
		t.Errorf("Expected masked key, got %q", out)
	}

	if path := strings.TrimSpace(env.mustRun("config", "path")); path != env.configPath {
		t.Errorf("Expected %q, got %q", env.configPath, path)
	}
}

func TestConfigSetKeyAndTheme(t *testing.T) {
	env := newTestEnv(t, echoAnswer)

	_, stderr, err := env.run("", "config", "set-key", "short")
	if err != nil {
		t.Fatalf("set-key failed: %v", err)
	}
	if !strings.Contains(stderr, "Warning") {
		t.Errorf("Expected a format warning, got %q", stderr)
	}

	out := env.mustRun("config", "set-theme", "light")
	if !strings.Contains(out, "light") {
		t.Errorf("Unexpected output %q", out)
	}
	if _, _, err := env.run("", "config", "set-theme", "neon"); err == nil {
		t.Error("Expected error for an unknown theme")
	}
}

func TestHealthCommand(t *testing.T) {
	env := newTestEnv(t, echoAnswer)

	out := env.mustRun("health")
	for _, want := range []string{"status:     ok", "version:    1.0.0", "cache size: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t, echoAnswer)

	if _, _, err := env.run("", "--server", "not a url", "chats", "list"); err == nil {
		t.Error("Expected error for an invalid server URL")
	}
	if _, _, err := env.run("", "--storage", "floppy", "chats", "list"); err == nil {
		t.Error("Expected error for an unknown storage backend")
	}
}
