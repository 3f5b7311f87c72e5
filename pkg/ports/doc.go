/*
Package ports defines the driven ports (interfaces) for the flowrunner engine.

These interfaces decouple path execution from external implementations, so
result reports can be archived to various storage backends.

# Key Interfaces

  - ReportStore: Responsible for persisting and retrieving ResultReports.
*/
package ports
