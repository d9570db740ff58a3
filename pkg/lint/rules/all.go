package rules

// All rules are registered via init() functions in their respective
// files. This file exists to document the full rule set in one place.
//
// Importing this package will register all the following rules:
//
// Structure rules:
//   - ST01: Required Children - Entries must contain required blocks
//   - ST02: Child Order - Blocks inside an entry follow the configured order
//   - ST03: Unknown Callout - Callout type not defined by any structure
//   - ST04: Nesting Depth - Quote depth exceeds the parser limit
//   - ST05: Duplicate Block - Singleton block appears more than once
//
// Format rules:
//   - FM01: Entry Date - Entry headers carry a recognized date
//   - FM02: Title Pattern - Entry titles match the configured pattern
//   - FM03: Callout Casing - Callout types use their configured spelling
//
// Content rules:
//   - CT01: Required Metrics - Metrics blocks contain every required metric
//   - CT02: Metric Order - Metrics appear in the configured order
//   - CT03: Unexpected Metric - Metric name outside the configured set
//   - CT04: Duplicate Metric - Metric name repeated within a block
