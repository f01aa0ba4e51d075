package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/pgg/classroom/apps/api/echo"
	"github.com/pgg/classroom/core"
	"github.com/pgg/classroom/core/class"
	"github.com/pgg/classroom/tests"
)

func setup(t *testing.T, terminal bool) (*commandLine, *bytes.Buffer, *class.Registry) {
	t.Helper()
	registry := class.NewRegistry()
	logger := new(testutil.Logger)
	validate, translator := testutil.NewValidator()

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       &core.Config{Env: "TEST", TestMode: true, Server: core.ServerConfig{DisableReqLogs: true}},
		Logger:     logger,
		ClassSvc:   class.NewService(registry, logger),
		Validate:   validate,
		Translator: translator,
	})
	srv := httptest.NewServer(app)
	t.Cleanup(func() {
		srv.Close()
		_ = app.Close()
	})

	isTerminal := isTerminalFunc
	isTerminalFunc = func(int) bool { return terminal }
	t.Cleanup(func() { isTerminalFunc = isTerminal })

	out := new(bytes.Buffer)
	return &commandLine{apiURL: srv.URL, out: out}, out, registry
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	want       []class.ClassInfo
}

func decodeClasses(t *testing.T, out *bytes.Buffer) []class.ClassInfo {
	t.Helper()
	var classes []class.ClassInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &classes), out.String())
	return classes
}

func runTests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, decodeClasses(t, out))
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, out, _ := setup(t, false)

	runTests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "only global flags", args: []string{"-addr", "http://localhost"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"list", "-lol"}, wantErr: errHelp},
		{name: "select: no id", args: []string{"select"}, wantErr: errHelp},
		{name: "select: invalid id", args: []string{"select", "-id", "three"}, wantErr: errHelp},
		{name: "add: no name", args: []string{"add", "-id", "6"}, wantErr: errHelp},
		{name: "add: no id", args: []string{"add", "-name", "Maths"}, wantErr: errHelp},
	})
	assert.Contains(t, out.String(), "Usage")
}

func Test_commandLine_classes(t *testing.T) {
	cli, out, registry := setup(t, false)

	seed := class.DefaultSeed()
	maths := class.ClassInfo{Name: "Maths", ID: 6}

	runTests(t, cli, out, []cliTest{
		{name: "list: empty", args: []string{"list"}, want: []class.ClassInfo{}},
		{name: "active: none", args: []string{"active"}, want: []class.ClassInfo{}},
		{name: "select: empty registry", args: []string{"select", "-id", "3"}, wantErrStr: "class not found"},
		{name: "load", args: []string{"load"}, want: seed},
		{name: "load again", args: []string{"load"}, want: seed},
		{name: "list: search", args: []string{"list", "-search", "nat"}, want: []class.ClassInfo{seed[2]}},
		{name: "list: ordering", args: []string{"list", "-ordering", "-id"}, want: []class.ClassInfo{seed[4], seed[3], seed[2], seed[1], seed[0]}},
		{name: "list: unknown ordering", args: []string{"list", "-ordering", "lol"}, wantErrStr: "ordering: cannot order by lol"},
		{name: "select", args: []string{"select", "-id", "3"}, want: []class.ClassInfo{seed[2]}},
		{name: "select: unknown id", args: []string{"select", "-id", "999"}, wantErrStr: "class not found"},
		{name: "active", args: []string{"active"}, want: []class.ClassInfo{seed[2]}},
		{name: "add", args: []string{"add", "-name", "Maths", "-id", "6"}, want: []class.ClassInfo{maths}},
		{name: "add: existing id", args: []string{"add", "-name", "Physics", "-id", "6"}, wantErrStr: "id: a class with this id already exists"},
	})

	assert.Equal(t, append(seed, maths), registry.Classes())
	active, ok := registry.ActiveClass()
	require.True(t, ok)
	assert.Equal(t, seed[2], active)
}

func Test_commandLine_addr(t *testing.T) {
	cli, out, _ := setup(t, false)
	apiURL := cli.apiURL
	cli.apiURL = "http://127.0.0.1:1" // nothing listens there

	err := cli.run([]string{"admin", "list"})
	assert.Error(t, err)

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "-addr", apiURL, "load"}))
	assert.Equal(t, class.DefaultSeed(), decodeClasses(t, out))
}

func Test_commandLine_table(t *testing.T) {
	cli, out, registry := setup(t, true)

	require.NoError(t, cli.run([]string{"admin", "list"}))
	assert.Equal(t, "no classes\n", out.String())

	registry.Add(class.ClassInfo{Name: "Maths", ID: 6}, class.ClassInfo{Name: "Physics", ID: 12})
	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "list"}))
	assert.Equal(t, "ID  NAME\n6   Maths\n12  Physics\n", out.String())
}
