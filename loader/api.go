package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerTaskHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", players = {...} }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.game != nil {
			L.RaiseError("Game{} defined more than once")
		}
		coll.game = tbl
		return 0
	}))

	// Card "id" { ... } — curried: Card("id") returns a function that takes a table.
	L.SetGlobal("Card", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.cards = append(coll.cards, rawCard{id: id, file: coll.file, table: tbl})
			return 0
		}))
		return 1
	}))

	// Pool "id" { "a", "b", {"c", "d"} } — curried.
	L.SetGlobal("Pool", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.pools = append(coll.pools, rawPool{id: id, file: coll.file, table: tbl})
			return 0
		}))
		return 1
	}))

	// Discover "id" { source = "...", steps = {...} } — curried.
	L.SetGlobal("Discover", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.discovers = append(coll.discovers, rawDiscover{id: id, table: tbl})
			return 0
		}))
		return 1
	}))
}

func registerTaskHelpers(L *lua.LState) {
	// AddToHand()
	L.SetGlobal("AddToHand", L.NewFunction(func(L *lua.LState) int {
		L.Push(moveTask(L, "move_to", "HAND"))
		return 1
	}))

	// Summon()
	L.SetGlobal("Summon", L.NewFunction(func(L *lua.LState) int {
		L.Push(moveTask(L, "move_to", "PLAY"))
		return 1
	}))

	// MoveTo("ZONE")
	L.SetGlobal("MoveTo", L.NewFunction(func(L *lua.LState) int {
		L.Push(moveTask(L, "move_to", L.CheckString(1)))
		return 1
	}))

	// AddStackTo("ZONE")
	L.SetGlobal("AddStackTo", L.NewFunction(func(L *lua.LState) int {
		L.Push(moveTask(L, "move_stack_to", L.CheckString(1)))
		return 1
	}))

	// Sequence { task1, task2, ... }
	L.SetGlobal("Sequence", L.NewFunction(func(L *lua.LState) int {
		items := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("sequence"))
		tbl.RawSetString("tasks", items)
		L.Push(tbl)
		return 1
	}))
}

func moveTask(L *lua.LState, typ, zone string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	tbl.RawSetString("zone", lua.LString(zone))
	return tbl
}
