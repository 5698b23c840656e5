package keymap

// DefaultTOML is the keymap used when no keymap file is configured.
const DefaultTOML = `# Default shortcuts.
[[scope]]
name = "global"

  [[scope.binding]]
  keys = ["ctrl+q", "ctrl+c"]
  action = "app.quit"
  description = "Quit"

  [[scope.binding]]
  keys = "f1"
  action = "app.help"
  description = "Show bindings"

  [[scope.binding]]
  keys = "ctrl+alt+s"
  action = "app.stats"
  description = "Show resolver statistics"

  [[scope.binding]]
  keys = "ctrl+s"
  action = "app.save"
  description = "Pretend to save"

  [[scope.binding]]
  keys = "ctrl+d"
  action = "dialog.open"
  description = "Open a dialog scope"

  [[scope.binding]]
  keys = "ctrl+l"
  lua = """
shortcuts.log("held: " .. table.concat(event.keys, "+"))
return true
"""
  description = "Log held keys from Lua"
`

// Default returns the parsed default keymap.
func Default() *File {
	f, err := Parse(FormatTOML, []byte(DefaultTOML))
	if err != nil {
		panic("keymap: invalid default keymap: " + err.Error())
	}
	return f
}
