// Package domain models the two climate datasets behind the dashboard and the
// aggregations derived from them.
//
// # Data Sources
//
// Temperature readings come from an ERA5 2 m air temperature extract for a single
// grid cell (40.75N, 286E, roughly Cornell Tech on Roosevelt Island). One row per
// sampled day:
//
//	time,Ktemp
//	1950-01-01,271.48
//
// Sea level comes from the satellite altimetry Global Mean Sea Level series. The
// file carries several samples per year; only two columns are used:
//
//	Year,GMSL_GIA
//	1993,-38.59
//
// GMSL_GIA is the global mean sea level variation in millimetres with the Glacial
// Isostatic Adjustment correction applied.
//
// # Conventions
//
// Temperatures are converted eagerly at load time:
//
//	F = (K - 273.15) * 9/5 + 32
//
// Calendar year and month are taken from the UTC timestamp.
//
// Sea-level years are kept as float64. Values that do not parse as numbers are
// missing and never reach an aggregate. Rows sharing the same numeric year are
// collapsed into one mean. A sea-level year joins a temperature year only when
// the two are numerically equal, so fractional years never join.
//
// Means skip NaN inputs. A group without any finite value produces no row.
//
// # Derived Views
//
//   - [MonthlyMeans]: months present in one calendar year, ascending, no filling.
//   - [YearlyMeans]: one row per calendar year present, ascending.
//   - [FirstYearAbove]: smallest year whose mean is strictly above a threshold,
//     reported through a found flag rather than an error.
//   - [JoinYearly]: inner join of the yearly series restricted to an inclusive window.
package domain
