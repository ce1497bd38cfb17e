// Package types defines the Store and Table interfaces, the entity types of
// the back office (properties, leads, appointments, workflows, activities and
// users), their typed patches and validation rules, and the standard errors
// shared by every storage backend.
package types
