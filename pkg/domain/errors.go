package domain

import "errors"

// ErrClusterNotFound is returned when a cluster reference is not present in the store.
var ErrClusterNotFound = errors.New("cluster not found")

// ErrClusterExists is returned when creating a cluster whose reference is taken.
var ErrClusterExists = errors.New("cluster already exists")

// ErrRecordNotFound is returned when a record ID is not part of the cluster.
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateName is returned when a record name is already used in the cluster.
var ErrDuplicateName = errors.New("duplicate record name")
