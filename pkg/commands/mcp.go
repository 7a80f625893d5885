package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/habits/pkg/runner/mcp"
)

// mcpOptions are the flags of the mcp command.
type mcpOptions struct {
	transport string
	host      string
	port      int
	path      string
	tlsCert   string
	tlsKey    string
}

func addMCP(topLevel *cobra.Command) {
	mo := &mcpOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes months, habits, and day toggles
to MCP clients over stdio or streamable HTTP.`,
		Example: `
habits mcp --transport stdio
habits mcp --http-port 0
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			persistence, err := so.Persistence()
			if err != nil {
				return err
			}
			runner := mcp.Runner{
				Persistence:      persistence,
				Log:              so.Log,
				Name:             "habits",
				Version:          "dev",
				HTTPEndpointPath: mo.endpoint(),
				HTTPServerCert:   strings.TrimSpace(mo.tlsCert),
				HTTPServerKey:    strings.TrimSpace(mo.tlsKey),
			}

			switch strings.ToLower(strings.TrimSpace(mo.transport)) {
			case "", string(mcp.TransportHTTP):
				addr, err := mo.listenAddr()
				if err != nil {
					return err
				}
				runner.Transport = mcp.TransportHTTP
				runner.HTTPListenAddr = addr
				runner.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s\n", mo.displayURL(a, runner.HTTPServerCert != "" && runner.HTTPServerKey != ""))
				}
			case string(mcp.TransportStdio):
				runner.Transport = mcp.TransportStdio
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", mo.transport)
			}

			return runner.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&mo.transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&mo.host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&mo.port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&mo.path, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&mo.tlsCert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&mo.tlsKey, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}

func (o *mcpOptions) endpoint() string {
	path := strings.TrimSpace(o.path)
	if path == "" {
		return "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func (o *mcpOptions) listenAddr() (string, error) {
	if o.port < 0 || o.port > 65535 {
		return "", fmt.Errorf("invalid http-port %d", o.port)
	}
	host := strings.TrimSpace(o.host)
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(o.port)), nil
}

// displayURL is the address a client should connect to. Wildcard hosts are
// replaced with the bound or loopback address.
func (o *mcpOptions) displayURL(a net.Addr, tls bool) string {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	tcpAddr, ok := a.(*net.TCPAddr)
	if !ok {
		return scheme + "://" + a.String() + o.endpoint()
	}
	host := strings.TrimSpace(o.host)
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
		if tcpAddr.IP != nil && !tcpAddr.IP.IsUnspecified() {
			host = tcpAddr.IP.String()
		}
	}
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(tcpAddr.Port)) + o.endpoint()
}
