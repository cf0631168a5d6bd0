// Package controller composes the session store and the services into the
// three views of the client: unauthenticated, dashboard and editor.
//
// Every authentication failure, wherever it is detected, goes through one
// path: the session store evicts the credential and the eviction listener
// tears down profile, dashboard, applications and questionnaire state
// together. Results of async work started before a teardown are dropped by
// comparing epochs.
package controller
