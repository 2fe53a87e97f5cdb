// Package config loads the hotkey configuration file. The file is a single
// [hotkey] table holding "ActionName" = "EventName" entries, optionally
// scoped to one interaction mode through the search, tracklist and playlist
// sub-tables. Anything the parser does not recognize fails the whole load,
// so a typo never silently drops a binding.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lmorel/tremolo/internal/input"
	"github.com/lmorel/tremolo/internal/keymap"
)

const (
	appName        = "tremolo"
	configFileName = "config.toml"
	hotkeyTable    = "hotkey"
)

var (
	ErrTOML            = errors.New("incorrect toml config")
	ErrAction          = errors.New("incorrect action value")
	ErrEvent           = errors.New("incorrect event value")
	ErrUnsupportedKey  = errors.New("unsupported config key")
	ErrUnsupportedItem = errors.New("unsupported toml item")
)

// Config holds everything read from the configuration file.
type Config struct {
	Bindings keymap.BindingTable
}

// Default returns the configuration used when no file exists: an empty
// binding table, leaving only the built-in key defaults active.
func Default() *Config {
	return &Config{Bindings: keymap.NewBindingTable(nil)}
}

// DefaultPath returns the XDG location of the configuration file.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appName, configFileName))
}

// Load reads the configuration from path, or from the default XDG location
// when path is empty. A missing file at the default location yields the
// default configuration; an explicitly requested file must exist.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return Default(), nil
		}
		path = p
	}
	return loadFile(path)
}

func loadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTOML, err)
	}
	return parseDocument(k.Raw())
}

func parseDocument(doc map[string]any) (*Config, error) {
	cfg := Default()
	for _, key := range sortedKeys(doc) {
		if key != hotkeyTable {
			return nil, fmt.Errorf("%w %s", ErrUnsupportedKey, key)
		}
		table, ok := doc[key].(map[string]any)
		if !ok {
			return nil, ErrUnsupportedItem
		}
		bindings, err := parseBindingTable(table)
		if err != nil {
			return nil, err
		}
		cfg.Bindings = bindings
	}
	return cfg, nil
}

// scopedTables names the sub-tables that narrow their entries to a single
// interaction mode. Every other key inside [hotkey] is an entry bound in
// all modes at once.
var scopedTables = map[string]keymap.Context{
	"search":    keymap.SearchContext(),
	"tracklist": keymap.TracklistContext(),
	"playlist":  keymap.PlaylistContext(),
}

// parseBindingTable walks the hotkey table in sorted key order, so entries
// competing for the same event within the same context keep a stable,
// alphabetical precedence across loads.
func parseBindingTable(table map[string]any) (keymap.BindingTable, error) {
	raw := make(map[input.Event][]keymap.ContextedAction)
	for _, key := range sortedKeys(table) {
		value := table[key]
		if context, ok := scopedTables[key]; ok {
			sub, ok := value.(map[string]any)
			if !ok {
				return keymap.BindingTable{}, ErrUnsupportedItem
			}
			for _, name := range sortedKeys(sub) {
				if err := addBinding(raw, context, name, sub[name]); err != nil {
					return keymap.BindingTable{}, err
				}
			}
			continue
		}
		if err := addBinding(raw, keymap.AllContexts(), key, value); err != nil {
			return keymap.BindingTable{}, err
		}
	}
	return keymap.NewBindingTable(raw), nil
}

func addBinding(raw map[input.Event][]keymap.ContextedAction, context keymap.Context, name string, value any) error {
	action, err := keymap.ParseActionName(name)
	if err != nil {
		return fmt.Errorf("%w %q", ErrAction, name)
	}
	spec, ok := value.(string)
	if !ok {
		return ErrUnsupportedItem
	}
	event, err := parseEventSpec(spec)
	if err != nil {
		return fmt.Errorf("%w %q", ErrEvent, spec)
	}
	raw[event] = append(raw[event], keymap.ContextedAction{Context: context, Action: action})
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
