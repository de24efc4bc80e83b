// Package sources provides interfaces and implementations for retrieving
// marketplace fixture data (products, users, transactions, schemes and
// learn content) from the places a deployment keeps it.
//
// Architecture:
//   - SourceHandler: fetches one fixture kind from one configured source
//   - FixtureValidator: checks raw data against the fixture's JSON schema
//   - FetchResult: the validated raw bytes plus their SHA256 hash
//
// Current implementations:
//   - embedded: the fixtures compiled into the binary (the default)
//   - file: a JSON file on the local filesystem
//   - api: a JSON document served over HTTP/HTTPS, fetched with
//     exponential backoff on transient failures
//
// Decoding into domain types happens in the dataset package; handlers only
// guarantee that what they return is schema-valid JSON.
package sources
