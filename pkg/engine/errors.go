package engine

// All failure modes in this package are reported through *flowerr.FlowError
// (flowerr.NotFoundf for a missing Section, flowerr.ContractViolationf for an
// edge with no recognized target kind, flowerr.ResourceLimitf for exceeding
// the configured max traversal depth) rather than package-local sentinels, so a caller
// branches on FlowError.Kind once instead of type-switching per package.
