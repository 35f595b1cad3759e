// Package shopsearch is the Go client for the shopsearch HTTP API.
//
// The client tolerates both wire shapes the service emits: the plain
// product array and the object form carrying products plus matching
// categories.
//
//	client, err := shopsearch.New("http://localhost:8080")
//	if err != nil { ... }
//	res, err := client.Search(ctx, "blue jeans")
package shopsearch
