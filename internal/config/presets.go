package config

import "sort"

var Presets = map[string]*Config{
	"local": {
		DataDir: DefaultDataDir, Listen: DefaultListen, RPCPath: DefaultRPCPath,
		LogLevel: "info", LogFormat: "text", Theme: DefaultTheme,
	},
	"public": {
		DataDir: "/srv/lightviz/data", Listen: "0.0.0.0:9000", RPCPath: DefaultRPCPath,
		LogLevel: "warn", LogFormat: "json", Colormap: "Cool to Warm", Theme: DefaultTheme,
	},
	"debug": {
		DataDir: "./data", Listen: "127.0.0.1:9001", RPCPath: DefaultRPCPath,
		LogLevel: "debug", LogFormat: "text", Theme: "minimal", TupleBooleans: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
