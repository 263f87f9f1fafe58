package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParseGiven(t *testing.T) {
	cases := []struct {
		in   string
		want [2]string
		err  bool
	}{
		{"x=1", [2]string{"x", "1"}, false},
		{" r = 2 * 3 ", [2]string{"r", "2 * 3"}, false},
		{"a=b=c", [2]string{"a", "b=c"}, false},
		{"x", [2]string{}, true},
		{"=1", [2]string{}, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := parseGiven(c.in)
			if (err != nil) != c.err {
				t.Fatalf("wrong error: %v", err)
			}
			if got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	in := "1 + 2\n\n3 *\n4\n"
	if got, want := split(in, false), []string{in}; !reflect.DeepEqual(got, want) {
		t.Errorf("whole: want %q, got %q", want, got)
	}
	if got, want := split(in, true), []string{"1 + 2", "3 *", "4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("lines: want %q, got %q", want, got)
	}
	if got := split("  \n", false); len(got) != 0 {
		t.Errorf("blank: want nothing, got %q", got)
	}
}

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(name, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(envConfigFilePath, "")
	conf, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(conf, defaultConfig()) {
		t.Errorf("no file: want defaults, got %+v", conf)
	}

	name := writeConfig(t, `
logging:
  log_level: debug
grammar:
  presets: [basic]
  brackets:
    open: "["
    close: "]"
  separator: ";"
  variables:
    x: 3
  juxtaposition: true
  max_depth: 50
server:
  addr: ":9000"
  allow_origins: ["http://localhost"]
`)
	t.Setenv(envConfigFilePath, name)
	conf, err = loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if conf.Logging.LogLevel != "debug" {
		t.Errorf("wrong log level %q", conf.Logging.LogLevel)
	}
	if conf.Server.Addr != ":9000" || len(conf.Server.AllowOrigins) != 1 {
		t.Errorf("wrong server config %+v", conf.Server)
	}
	g, err := conf.Grammar.build()
	if err != nil {
		t.Fatal(err)
	}
	r, err := g.Evaluate("max[2x; 5]")
	if err != nil {
		t.Fatal(err)
	}
	if r != 6 {
		t.Errorf("want 6, got %g", r)
	}

	bad := writeConfig(t, "grammar:\n  presetz: [basic]\n")
	if _, err := loadConfig(bad); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestBuildGrammarErrors(t *testing.T) {
	cases := []struct {
		name string
		conf GrammarConfig
	}{
		{"unknown preset", GrammarConfig{Presets: []string{"trig"}}},
		{"overlapping presets", GrammarConfig{Presets: []string{"basic", "standard"}}},
		{"empty variable", GrammarConfig{Variables: map[string]float64{" ": 1}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := c.conf.build(); err == nil {
				t.Error("no error")
			}
		})
	}
}

func post(t *testing.T, router http.Handler, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var r map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("bad response %q: %v", w.Body.String(), err)
	}
	return w.Code, r
}

func TestEvaluateHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conf := defaultConfig()
	g, err := conf.Grammar.build()
	if err != nil {
		t.Fatal(err)
	}
	conf.limitDepth(g)
	router := newRouter(g, conf.Server)

	cases := []struct {
		name   string
		body   string
		code   int
		result any
	}{
		{"plain", `{"equation": "1 + 2"}`, http.StatusOK, 3.0},
		{"variables", `{"equation": "2x", "variables": {"x": 3}}`, http.StatusOK, 6.0},
		{"infinite", `{"equation": "1/0"}`, http.StatusOK, "+Inf"},
		{"unparseable", `{"equation": "2 +"}`, http.StatusBadRequest, nil},
		{"missing", `{"variables": {"x": 3}}`, http.StatusBadRequest, nil},
		{"empty name", `{"equation": "1", "variables": {"": 3}}`, http.StatusBadRequest, nil},
		{"not json", `1 + 2`, http.StatusBadRequest, nil},
		{"too long", `{"equation": "` + strings.Repeat("(", 300) + `1"}`, http.StatusBadRequest, nil},
		{"unmatched openers", `{"equation": "` + strings.Repeat("(", 200) + `1"}`, http.StatusBadRequest, nil},
		{"too deep", `{"equation": "` + strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100) + `"}`, http.StatusBadRequest, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, r := post(t, router, c.body)
			if code != c.code {
				t.Fatalf("want status %d, got %d (%v)", c.code, code, r)
			}
			if c.code != http.StatusOK {
				if r["error"] == nil {
					t.Errorf("no error message in %v", r)
				}
				return
			}
			if r["result"] != c.result {
				t.Errorf("want result %v, got %v", c.result, r["result"])
			}
		})
	}

	// Variables from one request must not leak into the next.
	code, _ := post(t, router, `{"equation": "x"}`)
	if code != http.StatusBadRequest {
		t.Errorf("variable leaked between requests: status %d", code)
	}
}

func TestLimitDepth(t *testing.T) {
	deep := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)

	conf := defaultConfig()
	g, err := conf.Grammar.build()
	if err != nil {
		t.Fatal(err)
	}
	conf.limitDepth(g)
	if _, err := g.Compile(deep); err == nil {
		t.Error("serving depth not applied")
	}

	conf.Grammar.MaxDepth = 500
	g, err = conf.Grammar.build()
	if err != nil {
		t.Fatal(err)
	}
	conf.limitDepth(g)
	if _, err := g.Compile(deep); err != nil {
		t.Errorf("grammar depth overridden: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(nil, ServerConfig{AllowOrigins: []string{"http://localhost"}})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("want 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"ok"`)) {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}
