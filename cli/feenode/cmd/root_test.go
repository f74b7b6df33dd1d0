package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func executeApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	app := New()
	app.rootCmd.SetArgs(args)
	app.rootCmd.SetOut(out)
	app.rootCmd.SetErr(&bytes.Buffer{})
	err := app.Execute(context.Background())
	return out.String(), err
}

func TestRootConfig_Defaults(t *testing.T) {
	t.Setenv("FEE_HOME", "")
	t.Setenv("FEE_CONFIG", "")
	conf := &rootConfiguration{}
	conf.initConfigFileLocation()
	require.Equal(t, defaultHomeDir(), conf.HomeDir)
	require.Equal(t, filepath.Join(defaultHomeDir(), defaultConfigFile), conf.CfgFile)
}

func TestRootConfig_HomeFromEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FEE_HOME", home)
	conf := &rootConfiguration{LogCfgFile: defaultLoggerConfigFile}
	conf.initConfigFileLocation()
	require.Equal(t, home, conf.HomeDir)
	require.Equal(t, filepath.Join(home, defaultConfigFile), conf.CfgFile)
	require.Equal(t, filepath.Join(home, defaultLoggerConfigFile), conf.loggerCfgFilename())
}

func TestRootConfig_AbsolutePathsAreKept(t *testing.T) {
	conf := &rootConfiguration{HomeDir: "/home", CfgFile: "/etc/fee.yaml", LogCfgFile: "/etc/log.yaml"}
	conf.initConfigFileLocation()
	require.Equal(t, "/etc/fee.yaml", conf.CfgFile)
	require.Equal(t, "/etc/log.yaml", conf.loggerCfgFilename())
}

func TestRoot_InvalidConfigFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, defaultConfigFile), []byte("fees: [unclosed"), 0600))
	_, err := executeApp(t, "replay", "--home", home, filepath.Join("testdata", "scenario.yaml"))
	require.ErrorContains(t, err, "failed to initialize configuration")
}

func TestRoot_InvalidLoggerConfig(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, defaultLoggerConfigFile), []byte("defaultLevel: [x"), 0600))
	_, err := executeApp(t, "replay", "--home", home, filepath.Join("testdata", "scenario.yaml"))
	require.ErrorContains(t, err, "failed to initialize logger")
}

func TestRoot_UnknownCommand(t *testing.T) {
	_, err := executeApp(t, "unknown")
	require.Error(t, err)
}
