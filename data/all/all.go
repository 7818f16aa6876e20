// Package all registers every search driver.
//
//	import _ "github.com/ncobase/pagination/data/all"
//
// Binaries that only talk to one engine should import that driver instead.
package all

import (
	_ "github.com/ncobase/pagination/data/elasticsearch"
	_ "github.com/ncobase/pagination/data/meilisearch"
	_ "github.com/ncobase/pagination/data/memory"
	_ "github.com/ncobase/pagination/data/opensearch"
)
