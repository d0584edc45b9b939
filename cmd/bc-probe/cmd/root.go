// Package cmd implements bc-probe's command tree: discovery, login, and
// preview, grounded on cybergarage-go-matter's matterctl CLI (persistent
// flags bound into viper with an env-var prefix, one cobra.Command per
// verb).
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bcbridge/bc/pkg/bclog"
	"github.com/bcbridge/bc/pkg/bcconfig"
)

const (
	programName = "bc-probe"

	uidParamStr       = "uid"
	usernameParamStr  = "username"
	passwordParamStr  = "password"
	hostParamStr      = "host"
	portParamStr      = "port"
	registrarParamStr = "registrar"
	verboseParamStr   = "verbose"
)

var rootCmd = &cobra.Command{ // nolint:exhaustruct
	Use:               programName,
	Short:             "Probe a Baichuan (BC) IP camera: discovery, login, and preview.",
	DisableAutoGenTag: true,
}

// Execute runs the CLI; main's sole responsibility is forwarding its
// error to os.Exit.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetEnvPrefix("bc_probe")

	rootCmd.PersistentFlags().String(uidParamStr, "", "camera UID (as printed on the device label/app)")
	_ = viper.BindPFlag(uidParamStr, rootCmd.PersistentFlags().Lookup(uidParamStr))
	_ = viper.BindEnv(uidParamStr) // BC_PROBE_UID

	rootCmd.PersistentFlags().String(usernameParamStr, "admin", "login username")
	_ = viper.BindPFlag(usernameParamStr, rootCmd.PersistentFlags().Lookup(usernameParamStr))
	_ = viper.BindEnv(usernameParamStr) // BC_PROBE_USERNAME

	rootCmd.PersistentFlags().String(passwordParamStr, "", "login password")
	_ = viper.BindPFlag(passwordParamStr, rootCmd.PersistentFlags().Lookup(passwordParamStr))
	_ = viper.BindEnv(passwordParamStr) // BC_PROBE_PASSWORD

	rootCmd.PersistentFlags().String(hostParamStr, "", "camera host, skips discovery when set")
	_ = viper.BindPFlag(hostParamStr, rootCmd.PersistentFlags().Lookup(hostParamStr))
	_ = viper.BindEnv(hostParamStr) // BC_PROBE_HOST

	rootCmd.PersistentFlags().Int(portParamStr, bcconfig.DefaultTCPPort, "camera TCP control port")
	_ = viper.BindPFlag(portParamStr, rootCmd.PersistentFlags().Lookup(portParamStr))
	_ = viper.BindEnv(portParamStr) // BC_PROBE_PORT

	rootCmd.PersistentFlags().String(registrarParamStr, "", "registrar base URL, for remote/map/relay discovery")
	_ = viper.BindPFlag(registrarParamStr, rootCmd.PersistentFlags().Lookup(registrarParamStr))
	_ = viper.BindEnv(registrarParamStr) // BC_PROBE_REGISTRAR

	rootCmd.PersistentFlags().Bool(verboseParamStr, false, "enable debug logging")
	_ = viper.BindPFlag(verboseParamStr, rootCmd.PersistentFlags().Lookup(verboseParamStr))
	_ = viper.BindEnv(verboseParamStr) // BC_PROBE_VERBOSE
}

// cameraConfigFromFlags builds a bcconfig.CameraConfig from the bound
// persistent flags, shared by every subcommand.
func cameraConfigFromFlags() bcconfig.CameraConfig {
	return bcconfig.CameraConfig{
		UID:          viper.GetString(uidParamStr),
		Username:     viper.GetString(usernameParamStr),
		Password:     viper.GetString(passwordParamStr),
		Host:         viper.GetString(hostParamStr),
		Port:         viper.GetInt(portParamStr),
		RegistrarURL: viper.GetString(registrarParamStr),
		LoggerFactory: loggerFactory(),
	}
}

func loggerFactory() bclog.Factory {
	level := bclog.LogLevelInfo
	if viper.GetBool(verboseParamStr) {
		level = bclog.LogLevelDebug
	}
	return bclog.NewFactory(level)
}
