// Package commands implements CLI command handlers for tracegate.
//
// # Command Structure
//
// All commands follow a consistent pattern:
//   - Init(): Parse arguments and load configuration
//   - Run(): Execute the command
//   - Name(): Return command name for routing
//
// # Available Commands
//
//   - serve: Run the admin API and keep the registry in sync with the config file
//   - print: Print the configured verbosity listing
//   - check: Show effective verbosity and the gate decision for components
//   - stress: Hammer a registry with concurrent writers and readers
//
// # Example Usage
//
//	cmd := commands.CreateCheckCommand()
//	ctx := &commands.AppContext{
//	    ConfigPath: "/etc/tracegate.toml",
//	    Stdout:     os.Stdout,
//	}
//	if err := cmd.Init([]string{"-level", "3", "db.pool"}, ctx); err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package commands
