package contracts

import contractports "foldy/sal/internal/domains/contracts/ports"

type Backend = contractports.Backend
type RunRequest = contractports.RunRequest
type RunResponse = contractports.RunResponse
type TestRequest = contractports.TestRequest
type TestResponse = contractports.TestResponse
type VisualizeRequest = contractports.VisualizeRequest
type VisualizeResponse = contractports.VisualizeResponse
type CategorizedError = contractports.CategorizedError
