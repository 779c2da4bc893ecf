package main

import "dollcase/internal/models"

// Type aliases for backward compatibility during migration.
// These allow all existing handler code and tests to continue using
// the unqualified type names while the actual definitions live in internal/models.

type APIResponse = models.APIResponse
type Meta = models.Meta
type DollPart = models.DollPart
type MakeupArtist = models.MakeupArtist
type MakeupRecord = models.MakeupRecord
type BodyMakeup = models.BodyMakeup
type WardrobeItem = models.WardrobeItem
type Photo = models.Photo
type StatsBucket = models.StatsBucket
type MakeupTotals = models.MakeupTotals
type DollStats = models.DollStats
type BreakdownItem = models.BreakdownItem
type DollExpenses = models.DollExpenses
type WardrobeExpenses = models.WardrobeExpenses
type TotalExpenses = models.TotalExpenses
type TrendPoint = models.TrendPoint
