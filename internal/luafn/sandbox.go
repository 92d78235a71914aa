package luafn

import (
	"context"
	"hash/fnv"
	"math/rand"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

const (
	DefaultTimeoutMs        = 2000
	DefaultMemoryLimitBytes = 8388608

	violationTimeout = "sandbox timeout"
	violationMemory  = "sandbox memory limit"
)

// Libs selects which standard Lua libraries are opened.
type Libs struct {
	Base   bool `json:"base"`
	Table  bool `json:"table"`
	String bool `json:"string"`
	Math   bool `json:"math"`
}

// Sandbox bounds a Lua function's execution.
type Sandbox struct {
	TimeoutMs           int  `json:"timeoutMs"`
	MemoryLimitBytes    int  `json:"memoryLimitBytes"`
	Libs                Libs `json:"libs"`
	DeterministicRandom bool `json:"deterministicRandom"`
}

// DefaultSandbox opens base, table, string and math with a seeded random.
func DefaultSandbox() Sandbox {
	return Sandbox{
		TimeoutMs:           DefaultTimeoutMs,
		MemoryLimitBytes:    DefaultMemoryLimitBytes,
		Libs:                Libs{Base: true, Table: true, String: true, Math: true},
		DeterministicRandom: true,
	}
}

func newSandboxState(seedKey string, cfg Sandbox) *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:     true,
		RegistrySize:     256,
		RegistryMaxSize:  registryMaxFromMemory(cfg.MemoryLimitBytes),
		RegistryGrowStep: 0,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	if cfg.Libs.Base {
		openLib("base", lua.OpenBase)
	}
	if cfg.Libs.String {
		openLib("string", lua.OpenString)
	}
	if cfg.Libs.Table {
		openLib("table", lua.OpenTable)
	}
	if cfg.Libs.Math {
		openLib("math", lua.OpenMath)
		if cfg.DeterministicRandom {
			installDeterministicRandom(L, deterministicSeed(seedKey))
		}
	}
	return L
}

func registryMaxFromMemory(memoryLimitBytes int) int {
	if memoryLimitBytes <= 0 {
		return 256
	}
	n := memoryLimitBytes / 64
	if n < 128 {
		n = 128
	}
	if n > 4096 {
		n = 4096
	}
	return n
}

func deterministicSeed(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

func installDeterministicRandom(L *lua.LState, seed int64) {
	mathTbl, ok := L.GetGlobal("math").(*lua.LTable)
	if !ok || mathTbl == nil {
		return
	}
	rng := rand.New(rand.NewSource(seed))
	mathTbl.RawSetString("random", L.NewFunction(func(L *lua.LState) int {
		switch L.GetTop() {
		case 0:
			L.Push(lua.LNumber(rng.Float64()))
			return 1
		case 1:
			max := L.CheckInt(1)
			if max < 1 {
				L.ArgError(1, "interval is empty")
				return 0
			}
			L.Push(lua.LNumber(rng.Intn(max) + 1))
			return 1
		default:
			min := L.CheckInt(1)
			max := L.CheckInt(2)
			if max < min {
				L.ArgError(2, "interval is empty")
				return 0
			}
			L.Push(lua.LNumber(rng.Intn(max-min+1) + min))
			return 1
		}
	}))
	mathTbl.RawSetString("randomseed", L.NewFunction(func(L *lua.LState) int { return 0 }))
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if err == context.DeadlineExceeded {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadline") || strings.Contains(msg, "context canceled")
}

func isMemoryError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "registry overflow")
}

func estimateValueSize(v any, depth int) int {
	if depth > 32 {
		return 0
	}
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return len(x)
	case bool:
		return 1
	case float64, int, int64:
		return 8
	case map[string]any:
		n := 0
		for k, v2 := range x {
			n += len(k) + estimateValueSize(v2, depth+1)
		}
		return n
	case []any:
		n := 0
		for _, v2 := range x {
			n += estimateValueSize(v2, depth+1)
		}
		return n
	default:
		return 16
	}
}
