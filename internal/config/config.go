package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultWorkbookName is the workbook file used when none is configured.
const DefaultWorkbookName = "portfolio.xlsx"

const (
	envDataDir       = "PORTFOLIO_DATA_DIR"
	envWorkbookPath  = "PORTFOLIO_WORKBOOK_PATH"
	envHorizonMonths = "PORTFOLIO_HORIZON_MONTHS"
	envTimezone      = "PORTFOLIO_TIMEZONE"
	envJournal       = "PORTFOLIO_JOURNAL"
)

// UserConfig is persisted as config.json in the app config directory.
type UserConfig struct {
	WorkbookName   string `json:"workbook_name"`
	SheetName      string `json:"sheet_name"`
	DataDir        string `json:"data_dir"`
	HorizonMonths  int    `json:"horizon_months"`
	Timezone       string `json:"timezone"`
	JournalEnabled bool   `json:"journal_enabled"`
}

var runtimeDataDir string
var runtimeWorkbookPath string
var runtimePort = 8000

func IsMacOS() bool {
	return runtime.GOOS == "darwin"
}

func IsWindows() bool {
	return runtime.GOOS == "windows"
}

func SetRuntimeDataDir(dir string) {
	runtimeDataDir = dir
}

// SetRuntimeWorkbookPath pins the workbook, bypassing config and env.
func SetRuntimeWorkbookPath(path string) {
	runtimeWorkbookPath = path
}

func SetRuntimePort(port int) {
	if port > 0 {
		runtimePort = port
	}
}

func GetRuntimePort() int {
	return runtimePort
}

// LoadEnvFile loads KEY=VALUE pairs from the first existing file into the
// process environment without overriding variables already set. It reports
// which file was loaded, or "" when none exists.
func LoadEnvFile(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return "", fmt.Errorf("load %s: %w", p, err)
		}
		return p, nil
	}
	return "", nil
}

func appConfigDir() (string, error) {
	if IsMacOS() {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "Portfolio"), nil
	}
	if IsWindows() {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "Portfolio"), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "portfolio"), nil
	}
	return filepath.Join(configDir, "portfolio"), nil
}

func appConfigPath() (string, error) {
	dir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// localConfigPath finds a config.json next to the working directory or the
// executable.
func localConfigPath() string {
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, "config.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "config.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func defaultUserConfig() UserConfig {
	return UserConfig{
		WorkbookName:   DefaultWorkbookName,
		JournalEnabled: true,
	}
}

// LoadUserConfig reads config.json, falling back to defaults on any error.
func LoadUserConfig() UserConfig {
	cfg := defaultUserConfig()
	configPath, err := appConfigPath()
	if err != nil {
		return cfg
	}
	pathToUse := ""
	if _, err := os.Stat(configPath); err == nil {
		pathToUse = configPath
	} else if local := localConfigPath(); local != "" {
		pathToUse = local
	}
	if pathToUse == "" {
		return cfg
	}
	data, err := os.ReadFile(pathToUse)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return defaultUserConfig()
	}
	if strings.TrimSpace(cfg.WorkbookName) == "" {
		cfg.WorkbookName = DefaultWorkbookName
	}
	return cfg
}

// SaveUserConfig writes cfg to the app config dir, or to the local
// config.json when useAppConfig is false.
func SaveUserConfig(cfg UserConfig, useAppConfig bool) error {
	path := ""
	if useAppConfig {
		appPath, err := appConfigPath()
		if err != nil {
			return err
		}
		path = appPath
	} else {
		path = localConfigPath()
		if path == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return errors.New("cannot determine config path")
			}
			path = filepath.Join(cwd, "config.json")
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetDataDir resolves, and creates, the directory holding the workbook,
// journal and logs. Precedence: runtime flag, env, config, app config dir.
func GetDataDir() (string, error) {
	dir := runtimeDataDir
	if dir == "" {
		dir = os.Getenv(envDataDir)
	}
	if dir == "" {
		dir = LoadUserConfig().DataDir
	}
	if dir == "" {
		def, err := appConfigDir()
		if err != nil {
			return "", err
		}
		dir = def
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// WorkbookPinned reports whether the workbook path is fixed by flag or env,
// in which case switching workbooks is disabled.
func WorkbookPinned() bool {
	return runtimeWorkbookPath != "" || strings.TrimSpace(os.Getenv(envWorkbookPath)) != ""
}

// GetWorkbookPath resolves the workbook file path.
func GetWorkbookPath() (string, error) {
	if runtimeWorkbookPath != "" {
		return runtimeWorkbookPath, nil
	}
	if envPath := strings.TrimSpace(os.Getenv(envWorkbookPath)); envPath != "" {
		return envPath, nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, LoadUserConfig().WorkbookName), nil
}

// GetJournalPath returns the SQLite journal path, or "" when the journal
// is disabled.
func GetJournalPath() (string, error) {
	enabled := LoadUserConfig().JournalEnabled
	if v := strings.TrimSpace(os.Getenv(envJournal)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			enabled = b
		}
	}
	if !enabled {
		return "", nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "journal.db"), nil
}

// GetHorizonMonths returns the forecast horizon, 0 meaning "library default".
func GetHorizonMonths() int {
	if v := strings.TrimSpace(os.Getenv(envHorizonMonths)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if n := LoadUserConfig().HorizonMonths; n > 0 {
		return n
	}
	return 0
}

// GetTimezone returns the configured IANA zone name, or "".
func GetTimezone() string {
	if v := strings.TrimSpace(os.Getenv(envTimezone)); v != "" {
		return v
	}
	return LoadUserConfig().Timezone
}

// GetSheetName returns the configured worksheet name, or "".
func GetSheetName() string {
	return LoadUserConfig().SheetName
}

// SelectWorkbook records name as the active workbook in the app config.
func SelectWorkbook(name string) error {
	cfg := LoadUserConfig()
	cfg.WorkbookName = name
	return SaveUserConfig(cfg, true)
}
