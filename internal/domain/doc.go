// Package domain contains the core entities of the task service and the
// validation rules that hold for them regardless of transport or storage.
package domain
