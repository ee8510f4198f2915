/*
Package config loads rewriterc configuration files.

	            +-------------+
	            |   Config    |
	            |   (Rules)   |
	            +------+------+
	                   |
	   +--------+------+-------+--------+
	   |        |              |        |
	+--+---+ +--+---+      +---+--+ +---+--+
	| YAML | | JSON |      | TOML | | HCL  |
	+------+ +------+      +------+ +------+

🎯 Purpose:
- Reads a config file and picks a parser by extension
- Validates rules, globs and options before anything touches disk
- Resolves base_dir against the config file's directory

🔄 Flow:
1. Load reads the file
2. Parse dispatches to the registered Parser
3. Validate rejects empty patterns, bad globs and bad options
4. TextRules hands the rules to the text package for compilation

📝 Notes:
Pattern syntax is only checked when the rule chain is compiled, so a
config can be valid here and still fail with a pattern error at startup.

An extensionless .rewriterc file is tried as YAML, then as HCL.

🔍 Example:

	cfg, err := config.Load(ctx, ".rewriterc.yaml")
	if err != nil {
		return err
	}

	chain, err := text.Compile(cfg.TextRules())
*/
package config
