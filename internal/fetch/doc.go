// Package fetch downloads corpus archives and unpacks them into the local
// corpus root. Downloads stream through an MD5 digest check into a partial
// file that only takes the archive name once complete, so a crashed run is
// retried from scratch rather than trusted.
package fetch
