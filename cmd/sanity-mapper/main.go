// sanity-mapper maps flat input items onto documents that follow a Sanity
// schema, and optionally writes them with the Sanity Mutations API.
//
// Usage:
//
//	sanity-mapper map     --schema post.json --rules rules.yaml --input items.json [-o ndjson]
//	sanity-mapper mutate  --rules rules.yaml --input items.ndjson --operation createOrReplace --id-field slug
//	sanity-mapper check   --schema post.json --rules rules.yaml [--credentials]
//	sanity-mapper inspect --schema post.json [--path slug.current]
//
// Every command reads defaults from --config (YAML). SANITY_PROJECT_ID,
// SANITY_DATASET and SANITY_TOKEN supply credentials.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.As(err, new(reportedError)) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}

		os.Exit(1)
	}
}
