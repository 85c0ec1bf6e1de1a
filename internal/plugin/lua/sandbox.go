package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// safeLibraries are the only standard libraries opened in a state. io, os,
// debug, package and channel are never opened.
var safeLibraries = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// removedGlobals are base functions that load code or reach outside the
// state.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"getfenv",
	"setfenv",
	"collectgarbage",
	"newproxy",
	"_printregs",
}

func openSafeLibraries(L *lua.LState) error {
	for _, lib := range safeLibraries {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return err
		}
	}
	return nil
}

// installSandbox strips the loaders and routes print through out.
func installSandbox(L *lua.LState, out func(string)) {
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		out(strings.Join(parts, "\t"))
		return 0
	}))
}
