package config

import (
	"context"
	"os"

	"github.com/flowci/flow-impex/api"
	"github.com/flowci/flow-impex/util"
)

const tokenVisibleChars = 6

type (
	// Manager to hold settings and api client of current invocation
	Manager struct {
		Settings *Settings
		Client   api.Client

		AppCtx context.Context
		Cancel context.CancelFunc
	}
)

// Init load settings and create api client, the AppCtx will be done on timeout or parent done
func (m *Manager) Init(parent context.Context, path string, overrides map[string]interface{}) error {
	settings, err := Load(path, overrides)
	if err != nil {
		return err
	}

	m.Settings = settings

	if settings.Debug {
		util.EnableDebugLog()
	}

	if settings.WorkDir != "" {
		if err = os.MkdirAll(settings.WorkDir, os.ModePerm); err != nil {
			return err
		}
	}

	if settings.Timeout > 0 {
		m.AppCtx, m.Cancel = context.WithTimeout(parent, settings.Timeout)
	} else {
		m.AppCtx, m.Cancel = context.WithCancel(parent)
	}

	m.Client = api.NewClient(settings.HttpTimeout)

	return nil
}

func (m *Manager) PrintInfo() {
	s := m.Settings
	util.LogDebug("--- [Env]: %s", s.Env)
	util.LogDebug("--- [Tenant]: %s", s.Tenant)
	util.LogDebug("--- [Token]: %s", util.MaskString(s.Token, tokenVisibleChars))
	util.LogDebug("--- [Host]: %s", s.HostTemplate)
	util.LogDebug("--- [Max Retries]: %d", s.MaxRetries)
	util.LogDebug("--- [Retry Interval]: %s", s.RetryInterval)
	util.LogDebug("--- [Timeout]: %s", s.Timeout)
	util.LogDebug("--- [Work Dir]: %s", s.WorkDir)
}

// Close release resources
func (m *Manager) Close() {
	if m.Cancel != nil {
		m.Cancel()
	}
}
