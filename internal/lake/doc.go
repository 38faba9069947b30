// Package lake holds the physical environment of a simulated lake: basin
// geometry, the hydrological boundary series, and the meteorological and
// chemical forcing configurations.
//
// Each forcing family (temperature, wind, light, pH, TSS, inflow/outflow)
// resolves independently through its [ForcingConfig] operating mode. The
// accessors are pure functions of the configuration and the query
// timestamp; only [Environment.Volume] is mutated during a run, once per
// tick, by the water balance.
package lake
