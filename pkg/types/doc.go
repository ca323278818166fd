// Package types defines the clinical note entities, wound classification
// sets, sync summary shapes, and standard errors shared by the MediMeld
// storage engine, reconciler, and API surfaces.
package types
