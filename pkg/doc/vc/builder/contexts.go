/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package builder

import (
	"encoding/json"

	"github.com/opencreds/credvault/pkg/doc/vc/vcutil"
)

// vocabIRI is the base IRI for the domain vocabulary terms that are not
// covered by an external context.
const vocabIRI = "https://w3id.org/opencreds/vocab#"

// extensionContext is the inline context entry appended after the external
// context URLs. The @vocab entry keeps every domain term defined during
// canonicalization; an undefined term would be silently dropped and escape
// the signature.
//
//nolint:gochecknoglobals
var extensionContext = json.RawMessage(`{"@vocab":"` + vocabIRI + `"}`)

// Per-kind @context arrays. Order matters for JSON-LD processing: the base
// credentials context always comes first, the inline extension last.
func achievementContexts() []interface{} {
	return withExtension(vcutil.PrependBaseContext([]string{openBadgesV3Context}))
}

func domainContexts() []interface{} {
	return withExtension(vcutil.PrependBaseContext(nil))
}

func withExtension(urls []string) []interface{} {
	contexts := make([]interface{}, 0, len(urls)+1)

	for _, url := range urls {
		contexts = append(contexts, url)
	}

	return append(contexts, extensionContext)
}

const openBadgesV3Context = "https://purl.imsglobal.org/spec/ob/v3p0/context-3.0.2.json"
