// Package source retrieves the list of repositories to synchronize.
//
// Two sources are available:
//
//   - GHSource runs `gh repo list <org> --json sshUrl,url` once per batch.
//   - FileSource reads the same array shape from a local JSON or YAML file.
//
// Both produce a JSON-like array of objects. Every object must carry a
// non-empty string "sshUrl"; "url" (the repository web URL) is optional and,
// when present, yields the HTTPS clone URL by appending ".git". Any object
// missing "sshUrl" fails the whole listing with a *domain.ParseError, so a
// batch never starts from a partially understood payload.
package source
