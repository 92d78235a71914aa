package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/flarebyte/scribe/internal/buildinfo"
	"github.com/flarebyte/scribe/internal/luafn"
)

var flagJSON bool

// VersionCmd implements `scribe version`.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd.OutOrStdout(), flagJSON)
	},
}

type details struct {
	buildinfo.Info
	LuaABI string `json:"lua_abi"`
	Go     string `json:"go"`
	GoOS   string `json:"go_os"`
	GoArch string `json:"go_arch"`
}

func printVersion(w io.Writer, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintf(w, "scribe %s\n", buildinfo.Summary())
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(details{
		Info:   buildinfo.Current(),
		LuaABI: luafn.ABIVersion,
		Go:     runtime.Version(),
		GoOS:   runtime.GOOS,
		GoArch: runtime.GOARCH,
	})
}

func init() {
	VersionCmd.Flags().BoolVar(&flagJSON, "json", false, "Print detailed JSON version info")
}
