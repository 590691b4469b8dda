/*
Package stratum validates the typed values and identifiers stored in a Stratum data
store, where Projects hold Collections, Collections hold Clusters and Clusters hold
Records.

Every record carries a declared type tag (INTEGER, DATE, []UUID and so on) and a raw text
value typed by a user. The Validator decides whether the value is well formed for its tag
and whether the record name follows the naming policy, returning a verdict with a
human-readable reason.

# Usage

	v := stratum.New()

	res := v.ValidateValue("2025-02-30", schema.Date)
	fmt.Println(res.OK(), res.Reason()) // false Invalid date

	res = v.ValidateName(naming.KindRecord, "user id")
	fmt.Println(res.Reason()) // Record name cannot contain spaces

# Observability

Hooks receive an event for every check, which is how the bundled Prometheus collectors
are attached:

	v := stratum.New(
		stratum.WithLogger(logger),
		stratum.WithHooks(metrics.NewCollector(reg).Hooks()),
	)

The validation itself is pure: the Validator keeps only its configuration and is safe
for concurrent use.

# Packages

  - pkg/schema: type registry and value validation engine.
  - pkg/naming: identifier policies.
  - pkg/cluster: record editor service on top of a ports.ClusterStore.
  - pkg/adapters: memory, Redis, SQLite and Loam stores; HTTP and MCP servers.
*/
package stratum
