package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livp123/phaselog/pkg/errors"
)

const scenarioReport = "proc[42], locality size 10.\nFaults graph:\n \nreading-A\n\n" +
	"###################Phase shifts graph###################\n0.5"

const scenarioLog = `Jan 1 00:00:01 host proc[42]: execution has begun. Locality size is 10
Jan 1 00:00:02 host proc[42] tick: reading-A
Jan 1 00:00:03 host proc[42] shift: 0.5
Jan 1 00:00:04 host proc[42]: execution has ended
Jan 1 00:00:05 host proc[42] tick: after-end
`

// executeCommand executes a cobra command and returns output.
// executeCommand 执行 cobra 命令并返回输出。
func executeCommand(cmd *cobra.Command, stdin io.Reader, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// testEnv returns a temp dir, a config path that does not exist and a log file.
// testEnv 返回临时目录、不存在的配置路径以及日志文件。
func testEnv(t *testing.T, logContent string) (dir, cfgPath, logPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "absent.yaml")
	logPath = filepath.Join(dir, "kern.log")
	require.NoError(t, os.WriteFile(logPath, []byte(logContent), 0644))
	return dir, cfgPath, logPath
}

// TestRootCommandHelp tests root command help output.
// TestRootCommandHelp 测试根命令帮助输出。
func TestRootCommandHelp(t *testing.T) {
	output, err := executeCommand(NewRootCmd(), nil, "--help")
	assert.NoError(t, err)
	assert.Contains(t, output, "phaselog")
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "extract")
}

// TestInvalidCommand tests invalid command handling.
// TestInvalidCommand 测试无效命令处理。
func TestInvalidCommand(t *testing.T) {
	_, err := executeCommand(NewRootCmd(), nil, "invalid-command")
	assert.Error(t, err)
}

// TestVersionCommand tests the version output
// TestVersionCommand 测试版本输出
func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(NewRootCmd(), nil, "version", "-c", filepath.Join(t.TempDir(), "x.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "phaselog dev\n", output)
}

// TestExtract_File tests the reference scenario end to end
// TestExtract_File 端到端测试参考场景
func TestExtract_File(t *testing.T) {
	dir, cfgPath, logPath := testEnv(t, scenarioLog)
	out := filepath.Join(dir, "run1")

	_, err := executeCommand(NewRootCmd(), nil, "extract", "42", out, "--log", logPath, "-c", cfgPath)
	require.NoError(t, err)

	data, err := os.ReadFile(out + ".csv")
	require.NoError(t, err)
	assert.Equal(t, scenarioReport, string(data))
}

// TestExtract_Stdout tests reading stdin and writing stdout
// TestExtract_Stdout 测试从 stdin 读取并写到 stdout
func TestExtract_Stdout(t *testing.T) {
	_, cfgPath, _ := testEnv(t, "")

	output, err := executeCommand(NewRootCmd(), strings.NewReader(scenarioLog),
		"extract", "42", "--log", "-", "--stdout", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, scenarioReport, output)
}

// TestExtract_NoMatch tests a log without the pid
// TestExtract_NoMatch 测试不包含目标 pid 的日志
func TestExtract_NoMatch(t *testing.T) {
	_, cfgPath, logPath := testEnv(t, scenarioLog)

	output, err := executeCommand(NewRootCmd(), nil, "extract", "7", "--stdout", "--log", logPath, "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "###################Phase shifts graph###################", output)
}

// TestExtract_EmptyPID tests that a blank pid ignores "[]" lines
// TestExtract_EmptyPID 测试空白 pid 会忽略 "[]" 行
func TestExtract_EmptyPID(t *testing.T) {
	_, cfgPath, logPath := testEnv(t, "Jan 1 host proc[]: execution has begun. Locality size is 7\n"+
		"Jan 1 host proc[] tick: t1\n"+
		"Jan 1 host proc[] shift: s1\n")

	for _, pid := range []string{"", "  "} {
		output, err := executeCommand(NewRootCmd(), nil, "extract", pid, "--stdout", "--log", logPath, "-c", cfgPath)
		require.NoError(t, err)
		assert.Equal(t, "###################Phase shifts graph###################", output)
	}
}

// TestExtract_WarnToLogFile tests the warning written to a configured log file
// TestExtract_WarnToLogFile 测试写入日志文件的警告
func TestExtract_WarnToLogFile(t *testing.T) {
	dir, _, logPath := testEnv(t, scenarioLog)
	appLog := filepath.Join(dir, "logs", "phaselog.log")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"logging:\n  enabled: true\n  level: warn\n  path: "+appLog+"\n"), 0644))

	_, err := executeCommand(NewRootCmd(), nil, "extract", "", "--stdout", "--log", logPath, "-c", cfgPath)
	require.NoError(t, err)

	data, err := os.ReadFile(appLog)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[WARN] Empty pid")
	assert.NotContains(t, string(data), "[WARN]  ")
}

// TestExtract_ConfigFile tests that config values apply and flags override them
// TestExtract_ConfigFile 测试配置文件生效且命令行标志可覆盖
func TestExtract_ConfigFile(t *testing.T) {
	dir, _, logPath := testEnv(t, scenarioLog)
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"extract:\n  log_path: "+logPath+"\n  output_suffix: .txt\n  name_rule: after-first-field\n"), 0644))

	out := filepath.Join(dir, "run2")
	_, err := executeCommand(NewRootCmd(), nil, "extract", "42", out, "-c", cfgPath)
	require.NoError(t, err)
	data, err := os.ReadFile(out + ".txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "1 00:00:01 host proc[42], locality size 10."))

	_, err = executeCommand(NewRootCmd(), nil, "extract", "42", out, "-c", cfgPath, "--name-rule", "last-field", "--suffix", "")
	require.NoError(t, err)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, scenarioReport, string(data))
}

// TestExtract_StrictPolicy tests that a failed run leaves no report behind
// TestExtract_StrictPolicy 测试运行失败时不会留下报告文件
func TestExtract_StrictPolicy(t *testing.T) {
	log := "h p[5]: execution has begun. Locality size is 1\nh p[5]: execution has begun. Locality size is 2\n"
	dir, cfgPath, logPath := testEnv(t, log)
	out := filepath.Join(dir, "strict")

	_, err := executeCommand(NewRootCmd(), nil, "extract", "5", out, "--log", logPath, "--start-policy", "strict", "-c", cfgPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDuplicateStart)
	assert.NoFileExists(t, out+".csv")
}

// TestExtract_Metrics tests the Prometheus textfile export
// TestExtract_Metrics 测试 Prometheus textfile 导出
func TestExtract_Metrics(t *testing.T) {
	dir, cfgPath, logPath := testEnv(t, scenarioLog)
	prom := filepath.Join(dir, "phaselog.prom")

	_, err := executeCommand(NewRootCmd(), nil, "extract", "42", filepath.Join(dir, "m"),
		"--log", logPath, "--metrics-file", prom, "-c", cfgPath)
	require.NoError(t, err)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "phaselog_lines_scanned_total 4")
	assert.Contains(t, string(data), `phaselog_runs_total{result="terminated"} 1`)
}

// TestExtract_Errors tests argument and input errors
// TestExtract_Errors 测试参数与输入错误
func TestExtract_Errors(t *testing.T) {
	dir, cfgPath, logPath := testEnv(t, scenarioLog)

	_, err := executeCommand(NewRootCmd(), nil, "extract", "42", "--log", logPath, "-c", cfgPath)
	assert.ErrorContains(t, err, "missing output name")

	_, err = executeCommand(NewRootCmd(), nil, "extract", "-c", cfgPath)
	assert.Error(t, err)

	_, err = executeCommand(NewRootCmd(), nil, "extract", "42", filepath.Join(dir, "x"), "--log", filepath.Join(dir, "nope.log"), "-c", cfgPath)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	_, err = executeCommand(NewRootCmd(), nil, "extract", "42", "--stdout", "--log", logPath, "--start-policy", "latest", "-c", cfgPath)
	assert.ErrorIs(t, err, errors.ErrInvalidPolicy)
}

// TestExtract_BrokenConfig tests that an invalid config file stops extract
// TestExtract_BrokenConfig 测试无效配置文件会阻止 extract 执行
func TestExtract_BrokenConfig(t *testing.T) {
	dir, _, logPath := testEnv(t, scenarioLog)
	cfgPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("extract:\n  start_policy: sometimes\n"), 0644))

	_, err := executeCommand(NewRootCmd(), nil, "extract", "42", "--stdout", "--log", logPath, "-c", cfgPath)
	assert.ErrorIs(t, err, errors.ErrConfigInvalid)

	// version still works
	// version 依然可用
	output, err := executeCommand(NewRootCmd(), nil, "version", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, output, "phaselog")
}

// TestInitCommand tests writing the default configuration
// TestInitCommand 测试写入默认配置
func TestInitCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "etc", "phaselog", "config.yaml")

	output, err := executeCommand(NewRootCmd(), nil, "init", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration initialized")

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_path: /var/log/kern.log")
	assert.Contains(t, string(data), "start_policy: first")

	_, err = executeCommand(NewRootCmd(), nil, "init", "-c", cfgPath)
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)

	_, err = executeCommand(NewRootCmd(), nil, "init", "-c", cfgPath, "--force")
	assert.NoError(t, err)
}
