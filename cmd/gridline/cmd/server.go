package cmd

import (
	"fmt"
	"net/http"

	"github.com/dimfeld/httptreemux"
	"github.com/prometheus/common/log"
	"github.com/spf13/cobra"

	"github.com/go-spatial/gridline/config"
	"github.com/go-spatial/gridline/griddef"
	"github.com/go-spatial/gridline/gridline"
	"github.com/go-spatial/gridline/server"
)

var (
	// Server is the command to start up the api server
	Server = &cobra.Command{
		Use:     "serve",
		Short:   "Use gridline as an api server",
		Aliases: []string{"server"},
		Long:    `Use gridline as an api server. Grids are listed at /grids and rendered at /:grid/overlay.png?bbox=w,s,e,n`,
		RunE:    serverCmdRunE,
	}

	// port that the server should start up on, by default :8080
	port = ":8080"
)

func init() {
	Server.Flags().StringVar(&port, "port", ":8080", "port to start the server on")
}

// unionProvider spans the configured definition providers, trying
// each in turn.
type unionProvider struct {
	conf *config.Config
}

func (u unionProvider) GridFor(name string) (*gridline.Definition, error) {
	return DefinitionFor(u.conf, name)
}

func (u unionProvider) Grids() ([]string, error) {
	var names []string
	for _, prv := range Providers {
		ns, err := prv.Grids()
		if err != nil {
			return nil, err
		}
		names = append(names, ns...)
	}
	return names, nil
}

func serverCmdRunE(cmd *cobra.Command, args []string) error {
	conf, err := LoadConfig(configFile)
	if err != nil {
		return ErrExitWith{
			Err:       err,
			Msg:       fmt.Sprintf("error loading config: %v", err),
			ExitCode:  1,
			ShowUsage: true,
		}
	}

	if len(Providers) == 0 {
		return ErrExitWith{
			Err:      griddef.ErrNoProvidersRegistered,
			Msg:      "no definition providers configured",
			ExitCode: 1,
		}
	}

	// Shadow port and then check to see if it changed and the config
	// has a value we should use instead
	port := port
	if !cmd.Flag("port").Changed && conf.Webserver.Port != "" {
		port = conf.Webserver.Port
	}

	srv := server.Server{
		Hostname: conf.Webserver.HostName,
		Port:     port,
		Scheme:   conf.Webserver.Scheme,
		Headers:  make(map[string]string),
		Provider: unionProvider{conf: conf},
	}

	for name, val := range conf.Webserver.Headers {
		if val == "" {
			fmt.Fprintf(cmd.OutOrStderr(), "warning, webserver.header (%v) has no configured value, ignoring\n", name)
		}
		srv.Headers[name] = val
	}

	router := httptreemux.New()
	srv.RegisterRoutes(router)

	log.Infof("starting up server on %v", port)
	err = http.ListenAndServe(port, router)
	switch err {
	case nil:
		log.Infoln("shutting down")
		return nil
	case http.ErrServerClosed:
		log.Infoln("http server closed")
		return nil
	default:
		return ErrExitWith{
			Err:      err,
			Msg:      "failed to start up server",
			ExitCode: 1,
		}
	}
}
