/*
Package config loads and validates patchrc configuration files.

	                +-------------+
	                |   Config    |
	                |  (batches)  |
	                +------+------+
	                       |
	     +-----------------+-----------------+
	     |                 |                 |
	+----+-----+     +-----+-----+     +-----+----+
	|   YAML   |     |    HCL    |     |   JSON   |
	|  Parser  |     |  Parser   |     |  Parser  |
	+----------+     +-----------+     +----------+

🎯 Purpose:
- Picks a parser by file extension through a small registry
- Decodes strictly: unknown fields are errors in every format
- Validates batches and rules, naming the offending field
- Resolves the root against the config file's directory

📦 Shape:

	root: library/src/main/kotlin/com/kotlinjsonui/dynamic/components
	batches:
	  - name: add-data-param
	    include: ["Dynamic*.kt"]
	    exclude: ["DynamicTextComponent.kt"]
	    skip_if: ["data: Map<String, Any>"]
	    skip_reason: already has data parameter
	    rules:
	      - name: signature
	        search: "fun create(json: JsonObject)"
	        replace: "fun create(json: JsonObject, data: Map<String, Any> = emptyMap())"

The HCL form uses labeled blocks and can read the environment:

	root = env.COMPONENTS_DIR

	batch "add-data-param" {
	  include = ["Dynamic*.kt"]

	  rule "signature" {
	    search  = "fun create(json: JsonObject)"
	    replace = "fun create(json: JsonObject, data: Map<String, Any> = emptyMap())"
	  }
	}

🔍 Example:

	cfg, err := config.Load(ctx, ".patchrc.yaml")
	if err != nil {
		return err
	}
	for _, b := range cfg.Batches {
		root := cfg.BatchRoot(b)
		// ...
	}
*/
package config
