// Device-compat dialect: reshapes the flat reference telemetry.Snapshot
// into the nested vendor-style JSON real ASIC firmware exposes, grounded
// on marcosCapistrano-powerhive's internal/firmware response/request
// types (SummaryResponse, StatusResponse, SetPresetRequest). Existing
// firmware-polling tools can point at a simulated miner with no changes.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asicfleet/simulator/internal/configsurface"
	"github.com/asicfleet/simulator/internal/telemetry"
)

type compatSummaryResponse struct {
	Miner compatMiner `json:"miner"`
}

type compatMiner struct {
	MinerStatus      compatMinerStatus `json:"miner_status"`
	InstantHashrate  float64           `json:"instant_hashrate"`
	HashrateNominal  float64           `json:"hr_nominal"`
	PowerConsumption float64           `json:"power_consumption"`
	Cooling          compatCooling     `json:"cooling"`
	Chains           []compatChain     `json:"chains"`
	Pools            []compatPool      `json:"pools"`
}

type compatMinerStatus struct {
	MinerState string `json:"miner_state"`
}

type compatCooling struct {
	FanNum  int    `json:"fan_num"`
	FanDuty int    `json:"fan_duty"`
	Fans    []compatFan `json:"fans"`
}

type compatFan struct {
	ID     int `json:"id"`
	RPM    int `json:"rpm"`
}

type compatChain struct {
	ID               int     `json:"id"`
	Frequency        float64 `json:"frequency"`
	Voltage          float64 `json:"voltage"`
	HashrateRealtime float64 `json:"hr_realtime"`
	ChipTempC        float64 `json:"chip_temp_c"`
	VRTempC          float64 `json:"vr_temp_c"`
}

type compatPool struct {
	ID       int    `json:"id"`
	Status   string `json:"status"`
	Accepted uint64 `json:"accepted"`
	Rejected uint64 `json:"rejected"`
}

func toCompatSummary(snap telemetry.Snapshot) compatSummaryResponse {
	return compatSummaryResponse{
		Miner: compatMiner{
			MinerStatus:      compatMinerStatus{MinerState: snap.PoolState},
			InstantHashrate:  snap.HashRate,
			HashrateNominal:  snap.HashRate,
			PowerConsumption: snap.Power,
			Cooling: compatCooling{
				FanNum:  1,
				FanDuty: int(snap.FanSpeed),
				Fans:    []compatFan{{ID: 0, RPM: int(snap.FanRPM)}},
			},
			Chains: []compatChain{{
				ID:               0,
				Frequency:        float64(snap.Frequency),
				Voltage:          float64(snap.CoreVoltage) / 1000,
				HashrateRealtime: snap.HashRate,
				ChipTempC:        snap.Temp,
				VRTempC:          snap.VRTemp,
			}},
			Pools: []compatPool{{
				ID:       0,
				Status:   snap.PoolState,
				Accepted: snap.SharesAccepted,
				Rejected: snap.SharesRejected,
			}},
		},
	}
}

type compatStatusResponse struct {
	MinerState      string `json:"miner_state"`
	RebootRequired  bool   `json:"reboot_required"`
	RestartRequired bool   `json:"restart_required"`
	Unlocked        bool   `json:"unlocked"`
}

func toCompatStatus(snap telemetry.Snapshot) compatStatusResponse {
	return compatStatusResponse{
		MinerState: snap.PoolState,
		Unlocked:   true,
	}
}

// handleCompatSummary mirrors firmware's GET /summary.
func (s *Server) handleCompatSummary(c *gin.Context) {
	snap, err := s.rt.Snapshot(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompatSummary(snap))
}

// handleCompatStatus mirrors firmware's GET /status.
func (s *Server) handleCompatStatus(c *gin.Context) {
	snap, err := s.rt.Snapshot(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompatStatus(snap))
}

type compatSettingsRequest struct {
	Miner struct {
		Overclock struct {
			Frequency     *int     `json:"frequency"`
			CoreVoltage   *int     `json:"core_voltage"`
			AutoFanSpeed  *int     `json:"auto_fan_speed"`
			TargetTemp    *float64 `json:"target_temp"`
			ManualFanDuty *int     `json:"manual_fan_duty"`
		} `json:"overclock"`
	} `json:"miner"`
}

type compatSettingsResult struct {
	RebootRequired  bool                        `json:"reboot_required"`
	RestartRequired bool                        `json:"restart_required"`
	Violations      []configsurface.Violation   `json:"violations,omitempty"`
}

// handleCompatSettings mirrors firmware's POST /settings, translating the
// vendor-nested overclock block into a configsurface.RawPatch before
// reusing the same validated PatchConfig path the reference dialect uses.
func (s *Server) handleCompatSettings(c *gin.Context) {
	var req compatSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw := configsurface.RawPatch{
		CoreVoltageMV:    req.Miner.Overclock.CoreVoltage,
		FrequencyMHz:     req.Miner.Overclock.Frequency,
		AutoFanSpeed:     req.Miner.Overclock.AutoFanSpeed,
		TargetTempC:      req.Miner.Overclock.TargetTemp,
		ManualFanPercent: req.Miner.Overclock.ManualFanDuty,
	}

	violations, err := s.rt.PatchConfig(c.Param("id"), raw)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, compatSettingsResult{Violations: violations})
}
