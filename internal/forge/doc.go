// Package forge defines the contract between the merge request pipeline and
// provider adapters: the request fields, description sources, outcomes, the
// adapter error taxonomy, and the browser opener.
package forge
