package preset

func ptr(f float64) *float64 { return &f }

// defaultCatalogFile returns the built-in set of model and scenario presets shipped
// with the binary. It covers the scenario ids spec.md §3 names by example
// (healthy, hot_ambient, flaky_pool, degraded) plus two representative
// hardware archetypes.
func defaultCatalogFile() catalogFile {
	return catalogFile{
		SchemaVersion: defaultSchemaVersion,
		Models: []Model{
			{
				ModelID:                     "bm1370_4chip",
				DisplayName:                 "BM1370 4-chip reference board",
				ASICCount:                   4,
				InputVoltageV:               12,
				FrequencyMHz:                Range{Nominal: 525, Min: 350, Max: 650},
				CoreVoltageMV:               Range{Nominal: 1150, Min: 1020, Max: 1280},
				HashratePerChipGhsAtNominal: 290,
				PowerWAtNominal:             270,
				ThermalMassJPerC:            180,
				ThermalResistanceCPerW:      0.35,
				VROffsetC:                   6,
				FanMaxRPM:                   6000,
				AmbientCDefault:             25,
			},
			{
				ModelID:                     "bm1397_1chip",
				DisplayName:                 "BM1397 single-chip reference board",
				ASICCount:                   1,
				InputVoltageV:               5,
				FrequencyMHz:                Range{Nominal: 400, Min: 250, Max: 500},
				CoreVoltageMV:               Range{Nominal: 1200, Min: 1100, Max: 1350},
				HashratePerChipGhsAtNominal: 110,
				PowerWAtNominal:             21,
				ThermalMassJPerC:            22,
				ThermalResistanceCPerW:      1.8,
				VROffsetC:                   4,
				FanMaxRPM:                   4500,
				AmbientCDefault:             25,
			},
		},
		Scenarios: []Scenario{
			{
				ScenarioID:          "healthy",
				AcceptBias:          0.98,
				DisconnectRate:      0.0002,
				MTTRSeconds:         6,
				ErrorFloorPct:       0.1,
				HashrateJitterSigma: 0.02,
				ThermalNoiseSigma:   0.15,
				ConnectDelayS:       DurationRange{MinS: 2, MaxS: 5},
				RestartDurationS:    5,
			},
			{
				ScenarioID:          "hot_ambient",
				AmbientOverrideC:    ptr(38),
				AcceptBias:          0.95,
				DisconnectRate:      0.0006,
				MTTRSeconds:         10,
				ErrorFloorPct:       0.3,
				HashrateJitterSigma: 0.03,
				ThermalNoiseSigma:   0.25,
				ConnectDelayS:       DurationRange{MinS: 2, MaxS: 5},
				RestartDurationS:    5,
			},
			{
				ScenarioID:          "flaky_pool",
				AcceptBias:          0.9,
				DisconnectRate:      0.01,
				MTTRSeconds:         15,
				ErrorFloorPct:       0.5,
				HashrateJitterSigma: 0.02,
				ThermalNoiseSigma:   0.15,
				ConnectDelayS:       DurationRange{MinS: 3, MaxS: 8},
				RestartDurationS:    5,
			},
			{
				ScenarioID:          "degraded",
				AcceptBias:          0.8,
				DisconnectRate:      0.003,
				MTTRSeconds:         20,
				ErrorFloorPct:       2.0,
				HashrateJitterSigma: 0.08,
				ThermalNoiseSigma:   0.4,
				ConnectDelayS:       DurationRange{MinS: 4, MaxS: 10},
				RestartDurationS:    8,
			},
		},
	}
}

// Default builds the built-in catalog with no overlay applied.
func Default() (*Catalog, error) {
	return newCatalog(defaultCatalogFile())
}
