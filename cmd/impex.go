package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/flowci/flow-impex/config"
	"github.com/flowci/flow-impex/domain"
	"github.com/flowci/flow-impex/service"
	"github.com/flowci/flow-impex/util"
	"github.com/urfave/cli"
)

const (
	Version = "1.0.0"

	exitCodeFailure = 1
)

var (
	globalStringFlags = map[string]string{
		"host":     config.KeyHostTemplate,
		"work-dir": config.KeyWorkDir,
	}

	globalDurationFlags = map[string]string{
		"retry-interval": config.KeyRetryInterval,
		"timeout":        config.KeyTimeout,
	}

	commandStringFlags = map[string]string{
		"env":      config.KeyEnv,
		"tenant":   config.KeyTenant,
		"token":    config.KeyToken,
		"services": config.KeyServices,
		"source":   config.KeySource,
		"target":   config.KeyTarget,
		"file":     config.KeyFile,
	}
)

// NewApp create cli app with export and import commands
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "flow-impex"
	app.Usage = "export or import services through the async job api"
	app.Version = Version

	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "path to yaml config file"},
		cli.BoolFlag{Name: "debug", Usage: "enable debug log"},
		cli.StringFlag{Name: "host", Usage: "api host template, ex: excel.{env}.coherent.global"},
		cli.StringFlag{Name: "work-dir", Usage: "dir of generated archive"},
		cli.IntFlag{Name: "max-retries", Usage: "max attempts to check job status"},
		cli.DurationFlag{Name: "retry-interval", Usage: "base interval of linear backoff"},
		cli.DurationFlag{Name: "timeout", Usage: "timeout of the whole invocation"},
		cli.BoolFlag{Name: "strict", Usage: "fail if job not completed after max retries"},
		cli.BoolFlag{Name: "progress", Usage: "print download progress to stderr"},
	}

	app.Before = func(c *cli.Context) error {
		util.LogInit()
		if c.GlobalBool("debug") {
			util.EnableDebugLog()
		}
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:  "export",
			Usage: "export services and download the archive",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "env", Usage: "environment, ex: sit, uat.us"},
				cli.StringFlag{Name: "tenant", Usage: "tenant name"},
				cli.StringFlag{Name: "token", Usage: "bearer token"},
				cli.StringFlag{Name: "services", Usage: "service path or json array of paths, ex: [\"folder/service\"]"},
				cli.StringFlag{Name: "file", Usage: "path of downloaded archive, unique name generated if empty"},
			},
			Action: runExport,
		},
		{
			Name:  "import",
			Usage: "upload the archive and import services",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "env", Usage: "environment, ex: sit, uat.us"},
				cli.StringFlag{Name: "tenant", Usage: "tenant name"},
				cli.StringFlag{Name: "token", Usage: "bearer token"},
				cli.StringFlag{Name: "source", Usage: "source service path or json array of paths"},
				cli.StringFlag{Name: "target", Usage: "target service path, same as source if empty"},
				cli.StringFlag{Name: "file", Usage: "path of archive to upload", Value: "package.zip"},
			},
			Action: runImport,
		},
	}

	return app
}

func runExport(c *cli.Context) (err error) {
	defer util.RecoverPanic(func(e error) {
		err = exit(domain.NewError("unexpected failure on export", domain.ErrUnknown, e))
	})

	manager, err := initManager(c)
	if err != nil {
		return exit(err)
	}
	defer manager.Close()

	s := manager.Settings
	svc := service.NewExportService(manager.Client, options(c, s))

	report, err := svc.Export(manager.AppCtx, &domain.ExportArgs{
		Env:      s.Env,
		Tenant:   s.Tenant,
		Token:    s.Token,
		Services: s.Services,
		File:     s.File,
	})

	if err != nil {
		return exit(err)
	}

	if len(report.Failed) > 0 {
		util.LogWarn("failed to download: %v", report.Failed)
	}

	for _, r := range report.Downloaded {
		util.LogInfo("--- [Archive]: %s", r.Path)
	}

	util.LogInfo("✅ %d file download(s) initiated", report.Initiated)
	return nil
}

func runImport(c *cli.Context) (err error) {
	defer util.RecoverPanic(func(e error) {
		err = exit(domain.NewError("unexpected failure on import", domain.ErrUnknown, e))
	})

	manager, err := initManager(c)
	if err != nil {
		return exit(err)
	}
	defer manager.Close()

	s := manager.Settings
	svc := service.NewImportService(manager.Client, options(c, s))

	file := s.File
	if !c.IsSet("file") && util.IsEmptyString(file) {
		file = c.String("file")
	}

	report, err := svc.Import(manager.AppCtx, &domain.ImportArgs{
		Env:    s.Env,
		Tenant: s.Tenant,
		Token:  s.Token,
		Source: s.Source,
		Target: s.Target,
		File:   file,
	})

	if err != nil {
		return exit(err)
	}

	util.LogInfo("✅ %d service(s) imported", report.Count())
	return nil
}

func initManager(c *cli.Context) (*config.Manager, error) {
	manager := config.GetInstance()
	if err := manager.Init(context.Background(), c.GlobalString("config"), overrides(c)); err != nil {
		return nil, domain.NewError("failed to load config", domain.ErrBadRequest, err)
	}

	manager.PrintInfo()
	return manager, nil
}

func options(c *cli.Context, s *config.Settings) service.Options {
	return service.Options{
		HostTemplate:  s.HostTemplate,
		SourceSystem:  s.SourceSystem,
		MaxRetries:    s.MaxRetries,
		RetryInterval: s.RetryInterval,
		StrictPolling: s.StrictPolling,
		WorkDir:       s.WorkDir,
		Progress:      progressOutput(c.GlobalBool("progress")),
	}
}

// progressOutput returns stderr if progress enabled or in debug mode
func progressOutput(enabled bool) io.Writer {
	if enabled || util.IsDebugLog() {
		return os.Stderr
	}
	return nil
}

// overrides collect flags explicitly set, which have higher priority than env vars and config file
func overrides(c *cli.Context) map[string]interface{} {
	out := make(map[string]interface{})

	for flag, key := range globalStringFlags {
		if c.GlobalIsSet(flag) {
			out[key] = c.GlobalString(flag)
		}
	}

	for flag, key := range globalDurationFlags {
		if c.GlobalIsSet(flag) {
			out[key] = c.GlobalDuration(flag)
		}
	}

	if c.GlobalIsSet("max-retries") {
		out[config.KeyMaxRetries] = c.GlobalInt("max-retries")
	}

	if c.GlobalIsSet("strict") {
		out[config.KeyStrictPolling] = c.GlobalBool("strict")
	}

	if c.GlobalIsSet("debug") {
		out[config.KeyDebug] = c.GlobalBool("debug")
	}

	for flag, key := range commandStringFlags {
		if c.IsSet(flag) {
			out[key] = c.String(flag)
		}
	}

	return out
}

// exit log the error as the single catch point and returns exit code 1
func exit(err error) error {
	var se *domain.ScriptError
	if errors.As(err, &se) {
		util.LogError(">>> %s", se)

		if util.IsDebugLog() {
			raw, _ := json.Marshal(se.ToJSON())
			util.LogDebug("%s", raw)
		}
	} else {
		util.LogError(">>> %v", err)
	}

	return cli.NewExitError("", exitCodeFailure)
}
