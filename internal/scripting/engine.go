package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for geoscape rule hooks.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Core helpers first, then the geoscape hooks that may use them.
	for _, sub := range []string{"core", "geoscape"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// TextureContext is what the texture hook sees of a mission site.
type TextureContext struct {
	Mission    string
	Deployment string
	Lon        float64 // radians
	Lat        float64 // radians
	City       string
	Race       string
	Textures   []int // deployment candidates, may be empty
}

// PickTexture calls the Lua pick_site_texture function. ok is false when the
// hook is absent, fails, or returns something other than a non-negative
// number; callers then apply their own fallback.
func (e *Engine) PickTexture(ctx TextureContext) (texture int, ok bool) {
	fn := e.vm.GetGlobal("pick_site_texture")
	if fn == lua.LNil {
		return 0, false
	}

	t := e.vm.NewTable()
	t.RawSetString("mission", lua.LString(ctx.Mission))
	t.RawSetString("deployment", lua.LString(ctx.Deployment))
	t.RawSetString("lon", lua.LNumber(ctx.Lon))
	t.RawSetString("lat", lua.LNumber(ctx.Lat))
	t.RawSetString("city", lua.LString(ctx.City))
	t.RawSetString("race", lua.LString(ctx.Race))
	textures := e.vm.NewTable()
	for _, tex := range ctx.Textures {
		textures.Append(lua.LNumber(tex))
	}
	t.RawSetString("textures", textures)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua pick_site_texture error", zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, isNum := result.(lua.LNumber)
	if !isNum {
		if result != lua.LNil {
			e.log.Warn("lua pick_site_texture returned non-number",
				zap.String("type", result.Type().String()))
		}
		return 0, false
	}
	if n < 0 {
		e.log.Warn("lua pick_site_texture returned negative texture", zap.Float64("texture", float64(n)))
		return 0, false
	}
	return int(n), true
}

// HasHook reports whether a global Lua function with the given name exists.
func (e *Engine) HasHook(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
