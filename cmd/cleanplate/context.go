package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"cleanplate/internal/logging"
	"cleanplate/internal/profile"
	"cleanplate/internal/runstore"
)

type commandContext struct {
	profileFlag *string

	profileOnce   sync.Once
	prof          *profile.Profile
	profilePath   string
	profileExists bool
	profileErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(profileFlag *string) *commandContext {
	return &commandContext{profileFlag: profileFlag}
}

func (c *commandContext) ensureProfile() (*profile.Profile, error) {
	c.profileOnce.Do(func() {
		var path string
		if c.profileFlag != nil {
			path = strings.TrimSpace(*c.profileFlag)
		}
		prof, resolvedPath, exists, err := profile.Load(path)
		if err != nil {
			c.profileErr = err
			return
		}
		c.prof = prof
		c.profilePath = resolvedPath
		c.profileExists = exists
	})
	return c.prof, c.profileErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		prof, err := c.ensureProfile()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromProfile(prof)
		if err != nil {
			c.loggerErr = err
			return
		}
		logging.CleanupOldLogs(logger, prof.Logging.RetentionDays,
			logging.RetentionTarget{
				Dir:     prof.Paths.LogDir,
				Pattern: "cleanplate*.log",
				Exclude: []string{filepath.Join(prof.Paths.LogDir, "cleanplate.log")},
			},
		)
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// openStore connects to the run cache. Callers own the returned store and
// must close it.
func (c *commandContext) openStore() (*runstore.Store, error) {
	prof, err := c.ensureProfile()
	if err != nil {
		return nil, err
	}
	return runstore.Open(prof)
}
