package http

import (
	"math/big"
	"strings"
	"time"
	_ "time/tzdata"

	"vestadmin/internal/config"
	"vestadmin/internal/core"
)

const displayDateLayout = "2006-01-02"

type (
	amountView struct {
		Raw    string `json:"raw"`
		Tokens string `json:"tokens"`
	}

	scheduleEntryView struct {
		Date        string `json:"date"`
		DisplayDate string `json:"displayDate"`
		Amount      string `json:"amount"`
	}

	overviewView struct {
		TotalLocked     amountView `json:"totalLocked"`
		TotalVested     amountView `json:"totalVested"`
		TotalReleasable amountView `json:"totalReleasable"`
		TotalReleased   amountView `json:"totalReleased"`
	}

	contractView struct {
		Address          string             `json:"address"`
		AddressURL       string             `json:"addressUrl"`
		Beneficiary      string             `json:"beneficiary"`
		BeneficiaryURL   string             `json:"beneficiaryUrl"`
		Token            string             `json:"token"`
		Bucket           string             `json:"bucket"`
		BucketName       string             `json:"bucketName"`
		TotalAllocation  amountView         `json:"totalAllocation"`
		Vested           amountView         `json:"vested"`
		Releasable       amountView         `json:"releasable"`
		Released         amountView         `json:"released"`
		VestedPercentage float64            `json:"vestedPercentage"`
		HasReleasable    bool               `json:"hasReleasable"`
		NextVesting      *scheduleEntryView `json:"nextVesting"`
	}

	dashboardView struct {
		Overview       overviewView   `json:"overview"`
		Contracts      []contractView `json:"contracts"`
		ChainID        int64          `json:"chainId"`
		CorrectNetwork bool           `json:"isCorrectNetwork"`
		Network        string         `json:"network"`
		GeneratedAt    string         `json:"generatedAt"`
	}

	nextVestingView struct {
		Address     string             `json:"address"`
		Bucket      string             `json:"bucket"`
		NextVesting *scheduleEntryView `json:"nextVesting"`
	}

	scheduleView struct {
		Bucket     string              `json:"bucket"`
		BucketName string              `json:"bucketName"`
		Address    string              `json:"address"`
		AddressURL string              `json:"addressUrl"`
		Months     int                 `json:"months"`
		Total      string              `json:"total"`
		Entries    []scheduleEntryView `json:"entries"`
	}

	releaseView struct {
		Message     string `json:"message"`
		ID          string `json:"id"`
		Contract    string `json:"contract"`
		Bucket      string `json:"bucket"`
		TxHash      string `json:"txHash"`
		TxURL       string `json:"txUrl"`
		ChainID     int64  `json:"chainId"`
		SubmittedAt string `json:"submittedAt"`
	}

	networkView struct {
		ChainID          int64  `json:"chainId"`
		Name             string `json:"name"`
		RPCURL           string `json:"rpcUrl"`
		ExplorerURL      string `json:"explorerUrl"`
		Testnet          bool   `json:"testnet"`
		ConnectedChainID *int64 `json:"connectedChainId,omitempty"`
		IsCorrectNetwork *bool  `json:"isCorrectNetwork,omitempty"`
		ShouldSwitch     *bool  `json:"shouldSwitch,omitempty"`
	}
)

func newAmountView(v *big.Int) amountView {
	if v == nil {
		v = new(big.Int)
	}
	return amountView{Raw: v.String(), Tokens: core.FormatTokens(v)}
}

func newScheduleEntryView(e core.ScheduleEntry, loc *time.Location) scheduleEntryView {
	return scheduleEntryView{
		Date:        e.Date.UTC().Format(time.RFC3339),
		DisplayDate: e.Date.In(loc).Format(displayDateLayout),
		Amount:      e.Amount.String(),
	}
}

func newNextVestingView(next *core.ScheduleEntry, loc *time.Location) *scheduleEntryView {
	if next == nil {
		return nil
	}
	v := newScheduleEntryView(*next, loc)
	return &v
}

func newDashboardView(d core.Dashboard, network config.Network, loc *time.Location) dashboardView {
	out := dashboardView{
		Overview: overviewView{
			TotalLocked:     newAmountView(d.Overview.TotalLocked),
			TotalVested:     newAmountView(d.Overview.TotalVested),
			TotalReleasable: newAmountView(d.Overview.TotalReleasable),
			TotalReleased:   newAmountView(d.Overview.TotalReleased),
		},
		Contracts:      make([]contractView, 0, len(d.Contracts)),
		ChainID:        d.ChainID,
		CorrectNetwork: d.CorrectNetwork,
		Network:        network.Name,
		GeneratedAt:    d.GeneratedAt.In(loc).Format(time.RFC3339),
	}
	for _, c := range d.Contracts {
		out.Contracts = append(out.Contracts, contractView{
			Address:          c.Details.ContractAddress,
			AddressURL:       addressURL(network, c.Details.ContractAddress),
			Beneficiary:      c.Details.Beneficiary,
			BeneficiaryURL:   addressURL(network, c.Details.Beneficiary),
			Token:            c.Details.Token,
			Bucket:           c.Bucket.String(),
			BucketName:       c.Bucket.DisplayName(),
			TotalAllocation:  newAmountView(c.Details.TotalAllocation),
			Vested:           newAmountView(c.Details.VestedAmount),
			Releasable:       newAmountView(c.Details.ReleasableAmount),
			Released:         newAmountView(c.Details.ReleasedAmount),
			VestedPercentage: c.VestedPercentage,
			HasReleasable:    c.HasReleasable,
			NextVesting:      newNextVestingView(c.NextVesting, loc),
		})
	}
	return out
}

func newScheduleView(bucket core.Bucket, address string, s core.Schedule, network config.Network, loc *time.Location) scheduleView {
	out := scheduleView{
		Bucket:     bucket.String(),
		BucketName: bucket.DisplayName(),
		Address:    address,
		AddressURL: addressURL(network, address),
		Months:     s.Len(),
		Total:      s.Total().String(),
		Entries:    make([]scheduleEntryView, 0, s.Len()),
	}
	for _, e := range s {
		out.Entries = append(out.Entries, newScheduleEntryView(e, loc))
	}
	return out
}

func addressURL(network config.Network, address string) string {
	if address == "" || network.ExplorerURL == "" {
		return ""
	}
	return strings.TrimRight(network.ExplorerURL, "/") + "/address/" + address
}

func txURL(network config.Network, hash string) string {
	if hash == "" || network.ExplorerURL == "" {
		return ""
	}
	return strings.TrimRight(network.ExplorerURL, "/") + "/tx/" + hash
}

// loadLocation falls back to UTC for an empty or unknown zone name.
func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}
