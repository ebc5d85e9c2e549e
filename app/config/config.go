package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"bellbird-files/app"
	"bellbird-files/app/debug"
	"bellbird-files/app/utils"

	"gopkg.in/ini.v1"
)

//go:embed default.conf
var defaultConf []byte

type Section int

const (
	General Section = iota
	Browser
)

// Map of Section enum values to their string representations
var sections = map[Section]string{
	General: "General",
	Browser: "Browser",
}

// String returns the string representation of a Section
func (s Section) String() string {
	return sections[s]
}

type Option int

const (
	StartDirectory Option = iota
	ShowHidden
	NerdFonts
	ParentEntry
	PageSize
	UndoLimit
	IndentLines
	ConfirmDelete

	// meta options
	LastDirectory
	Expanded
)

// Map of Option enum values to their string names as used in the ini file
var options = map[Option]string{
	StartDirectory: "StartDirectory",
	ShowHidden:     "ShowHidden",
	NerdFonts:      "NerdFonts",
	ParentEntry:    "ParentEntry",
	PageSize:       "PageSize",
	UndoLimit:      "UndoLimit",
	IndentLines:    "IndentLines",
	ConfirmDelete:  "ConfirmDelete",
	LastDirectory:  "LastDirectory",
	Expanded:       "Expanded",
}

// String returns the string representation of an Option
func (o Option) String() string {
	return options[o]
}

// Value represents a single config entry
type Value struct {
	Value string
}

func (v Value) GetBool() bool {
	return v.Value == "true"
}

// GetInt returns the value as int or fallback if it isn't a number
func (v Value) GetInt(fallback int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v.Value))
	if err != nil {
		return fallback
	}
	return i
}

// Config holds all config data
type Config struct {
	// path to the main config file
	filePath string

	// path to the meta data config file
	metaFilePath string

	// parsed default config file
	file *ini.File

	// parsed user config file
	userFile *ini.File

	// parse meta data file
	metaFile *ini.File

	// timer used to debounce saving meta config changes
	flushTimer *time.Timer

	// mutex to synchronise flush operations
	flushMu sync.Mutex

	// delay before flushing changes to disk
	flushDelay time.Duration

	// cached nerdFonts config value
	nerdFonts *bool
}

func (c *Config) File() string     { return c.filePath }
func (c *Config) MetaFile() string { return c.metaFilePath }

// New loads or creates the config files in the user's config directory.
// If that fails only the defaults are available and nothing is saved.
func New() *Config {
	dir, err := app.ConfigDir()
	if err == nil {
		var conf *Config
		if conf, err = NewWithDir(dir); err == nil {
			return conf
		}
	}

	debug.LogErr("Failed to load config, using defaults:", err)

	conf, _ := ini.Load(defaultConf)
	return &Config{
		file:       conf,
		userFile:   ini.Empty(),
		metaFile:   ini.Empty(),
		flushDelay: 400 * time.Millisecond,
	}
}

// NewWithDir loads or creates the config and meta file in dir
func NewWithDir(dir string) (*Config, error) {
	ini.PrettyFormat = false
	ini.PrettyEqual = true

	filePath := filepath.Join(dir, app.ModuleName()+".conf")
	metaFilePath := filepath.Join(dir, app.ModuleName()+"_metainfos")

	for _, path := range []string{filePath, metaFilePath} {
		f, err := utils.CreateFile(path, false)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	conf, err := ini.Load(defaultConf)
	if err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}

	userConf, err := ini.Load(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	metaConf, err := ini.Load(metaFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read meta infos file: %w", err)
	}

	return &Config{
		filePath:     filePath,
		metaFilePath: metaFilePath,
		file:         conf,
		userFile:     userConf,
		metaFile:     metaConf,
		flushDelay:   400 * time.Millisecond,
	}, nil
}

// Reload refreshes the current configuration file in memory
func (c *Config) Reload() {
	if c.filePath == "" {
		return
	}

	conf, err := ini.Load(c.filePath)
	if err != nil {
		debug.LogErr("Failed to read config file:", err)
		return
	}

	c.userFile = conf
	c.nerdFonts = nil
}

// Value retrieves the value of a configuration option in a given section.
// The user config wins over the defaults.
func (c *Config) Value(section Section, option Option) (Value, error) {
	if sect, err := c.userFile.GetSection(section.String()); err == nil {
		if opt := sect.Key(option.String()); opt.String() != "" {
			return Value{opt.String()}, nil
		}
	}

	sect, err := c.file.GetSection(section.String())
	if err != nil {
		return Value{}, fmt.Errorf("no section: %s", section.String())
	}

	if opt := sect.Key(option.String()); opt.String() != "" {
		return Value{opt.String()}, nil
	}

	return Value{}, fmt.Errorf(
		"couldn't find config option `%s` in section `%s`",
		option.String(),
		section.String(),
	)
}

// SetValue sets a configuration option value in the specified section
// and saves the user config file immediately
func (c *Config) SetValue(section Section, option Option, value string) {
	c.userFile.
		Section(section.String()).
		Key(option.String()).
		SetValue(value)

	if option == NerdFonts {
		c.nerdFonts = nil
	}

	if c.filePath == "" {
		return
	}

	if err := c.userFile.SaveTo(c.filePath); err != nil {
		debug.LogErr(err)
	}
}

// MetaValue retrieves a metadata value by a section and option.
// Use an empty section for global values.
func (c *Config) MetaValue(section string, option Option) (string, error) {
	if c.metaFile == nil {
		return "", errors.New("could not find meta file")
	}

	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	sect, err := c.metaFile.GetSection(section)
	if err != nil {
		return "", fmt.Errorf("could not find meta section: %s", section)
	}

	if !sect.HasKey(option.String()) {
		return "", fmt.Errorf(
			"could not find meta option `%s` in section `%s`",
			option,
			section,
		)
	}

	return sect.Key(option.String()).String(), nil
}

// SetMetaValue sets a metadata option value and schedules
// saving changes with debounce
func (c *Config) SetMetaValue(section string, option Option, value string) {
	c.flushMu.Lock()
	opt := c.metaFile.Section(section).Key(option.String())

	if opt.Value() == value {
		c.flushMu.Unlock()
		return
	}

	opt.SetValue(value)
	c.flushMu.Unlock()

	c.debounceFlush()
}

// RenameMetaSection moves all meta values of oldName to newName, e.g.
// after a directory was renamed. Sections below oldName move as well.
func (c *Config) RenameMetaSection(oldName string, newName string) error {
	if c.metaFile == nil {
		return errors.New("could not find meta file")
	}

	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	for _, section := range c.metaFile.Sections() {
		name := section.Name()
		if name == ini.DefaultSection || !utils.IsWithin(oldName, name) {
			continue
		}

		rel, _ := filepath.Rel(oldName, name)
		newSection, err := c.metaFile.NewSection(filepath.Join(newName, rel))
		if err != nil {
			return err
		}

		for _, key := range section.Keys() {
			newSection.Key(key.Name()).SetValue(key.Value())
		}

		c.metaFile.DeleteSection(name)
	}

	return c.save()
}

// ExpandedUnder returns all directories below root that were expanded
// when they were last seen, parents before children.
// A directory whose parent below root is not expanded is left out.
func (c *Config) ExpandedUnder(root string) []string {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	expanded := map[string]bool{}
	for _, section := range c.metaFile.Sections() {
		name := section.Name()
		if name == root || !utils.IsWithin(root, name) {
			continue
		}

		if section.Key(Expanded.String()).String() == "true" {
			expanded[name] = true
		}
	}

	var dirs []string
	for name := range expanded {
		if ancestorsExpanded(root, name, expanded) {
			dirs = append(dirs, name)
		}
	}

	slices.Sort(dirs)
	return dirs
}

func ancestorsExpanded(root string, path string, expanded map[string]bool) bool {
	for dir := filepath.Dir(path); dir != root; dir = filepath.Dir(dir) {
		if !utils.IsWithin(root, dir) || !expanded[dir] {
			return false
		}
	}
	return true
}

// CleanMetaFile removes sections of paths that no longer exist
func (c *Config) CleanMetaFile() {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	for _, section := range c.metaFile.Sections() {
		// skip global values
		if section.Name() == ini.DefaultSection {
			continue
		}

		if _, err := os.Stat(section.Name()); err != nil {
			c.metaFile.DeleteSection(section.Name())
		}
	}

	if err := c.save(); err != nil {
		debug.LogErr(err)
	}
}

// Flush writes pending meta changes immediately
func (c *Config) Flush() error {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	if c.flushTimer != nil {
		c.flushTimer.Stop()
		c.flushTimer = nil
	}

	return c.save()
}

// save writes the meta file, the caller must hold flushMu
func (c *Config) save() error {
	if c.metaFilePath == "" {
		return nil
	}
	return c.metaFile.SaveTo(c.metaFilePath)
}

// debounceFlush uses a timer and mutex to delay and
// batch saving of metaFile changes
func (c *Config) debounceFlush() {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	// Cancel previous timer if it exists
	if c.flushTimer != nil {
		c.flushTimer.Stop()
	}

	// Set up a new delayed flush
	c.flushTimer = time.AfterFunc(c.flushDelay, func() {
		c.flushMu.Lock()
		defer c.flushMu.Unlock()

		if err := c.save(); err != nil {
			debug.LogErr(err)
		}
	})
}

// NerdFonts determines whether nerd fonts are enabled either
// via the config file or the cli argument.
// The cli argument always overrides value set in the config
func (c *Config) NerdFonts() bool {
	if c.nerdFonts != nil {
		return *c.nerdFonts
	}

	nf, err := c.Value(General, NerdFonts)

	// default is true
	nerdFonts := true

	// if setting is found in config file use it
	if err == nil && nf.Value != "" {
		nerdFonts = nf.GetBool()
	}

	// overwrite if cli flag is found
	if app.CliArgs.NoNerdFonts {
		nerdFonts = false
	}

	c.nerdFonts = &nerdFonts
	return nerdFonts
}

// ShowHidden returns whether dot files are listed.
// The --show-hidden flag always enables them.
func (c *Config) ShowHidden() bool {
	return app.CliArgs.ShowHidden || c.boolValue(General, ShowHidden)
}

func (c *Config) ParentEntry() bool   { return c.boolValue(General, ParentEntry) }
func (c *Config) IndentLines() bool   { return c.boolValue(Browser, IndentLines) }
func (c *Config) ConfirmDelete() bool { return c.boolValue(Browser, ConfirmDelete) }

func (c *Config) PageSize() int  { return c.intValue(Browser, PageSize, 10) }
func (c *Config) UndoLimit() int { return c.intValue(Browser, UndoLimit, 50) }

// StartDirectory returns the directory to open on start.
// The command line argument wins, then the configured directory, then
// the last visited one and finally the working directory.
// A leading ~ is replaced with the home directory.
func (c *Config) StartDirectory() string {
	candidates := []string{app.CliArgs.Dir}

	if dir, err := c.Value(General, StartDirectory); err == nil {
		candidates = append(candidates, dir.Value)
	}

	if dir, err := c.MetaValue("", LastDirectory); err == nil {
		candidates = append(candidates, dir)
	}

	for _, dir := range candidates {
		if dir == "" {
			continue
		}

		dir = utils.ExpandHome(dir)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}

		debug.LogWarn("can't open start directory", dir)
	}

	wd, err := os.Getwd()
	if err != nil {
		debug.LogErr(err)
		return "."
	}
	return wd
}

func (c *Config) boolValue(section Section, option Option) bool {
	v, err := c.Value(section, option)
	if err != nil {
		debug.LogErr(err)
	}
	return v.GetBool()
}

func (c *Config) intValue(section Section, option Option, fallback int) int {
	v, err := c.Value(section, option)
	if err != nil {
		debug.LogErr(err)
		return fallback
	}
	return v.GetInt(fallback)
}
