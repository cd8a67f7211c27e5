package main

import (
	"fmt"

	"github.com/flemzord/edgechat/pkg/app"
	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

// program adapts the app loop to the system service manager.
type program struct {
	configPath string
	errCh      chan error
}

func (p *program) Start(service.Service) error {
	go func() {
		p.errCh <- app.Run(app.RunParams{
			ConfigPath: p.configPath,
			Version:    version,
		})
	}()
	return nil
}

func (p *program) Stop(service.Service) error {
	// app.Run exits on SIGTERM, which the service manager sends.
	return nil
}

func newService(configPath string) (service.Service, *program, error) {
	var args []string
	args = append(args, "service", "run")
	if configPath != "" {
		args = append(args, "--config", configPath)
	}

	prg := &program{
		configPath: configPath,
		errCh:      make(chan error, 1),
	}
	svc, err := service.New(prg, &service.Config{
		Name:        "edgechat",
		DisplayName: "edgechat",
		Description: "Session-scoped chat service with rolling conversation memory",
		Arguments:   args,
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, prg, nil
}

// serviceCmd manages edgechat as a system service (systemd, launchd, SCM).
func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage edgechat as a system service",
	}

	var configPath string
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	action := func(name string, do func(service.Service) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: name + " the system service",
			RunE: func(_ *cobra.Command, _ []string) error {
				svc, _, err := newService(configPath)
				if err != nil {
					return err
				}
				if err := do(svc); err != nil {
					return err
				}
				fmt.Printf("service %s: done\n", name)
				return nil
			},
		}
	}

	cmd.AddCommand(
		action("install", func(s service.Service) error { return s.Install() }),
		action("uninstall", func(s service.Service) error { return s.Uninstall() }),
		action("start", func(s service.Service) error { return s.Start() }),
		action("stop", func(s service.Service) error { return s.Stop() }),
		&cobra.Command{
			Use:    "run",
			Short:  "Run under the service manager (used by install)",
			Hidden: true,
			RunE: func(_ *cobra.Command, _ []string) error {
				svc, prg, err := newService(configPath)
				if err != nil {
					return err
				}
				if err := svc.Run(); err != nil {
					return err
				}
				select {
				case err := <-prg.errCh:
					return err
				default:
					return nil
				}
			},
		},
	)
	return cmd
}
