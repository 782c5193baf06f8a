package netbench

//
// Network condition controller
//

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate returns [ErrInvalidImpairment] if the impairment is not valid.
func (spec NetworkImpairmentSpec) Validate() error {
	if spec.LatencyMS < 0 {
		return fmt.Errorf("%w: negative latency %d ms", ErrInvalidImpairment, spec.LatencyMS)
	}
	if spec.PacketLossPct < 0 || spec.PacketLossPct > 100 {
		return fmt.Errorf("%w: packet loss %v%% outside [0, 100]", ErrInvalidImpairment, spec.PacketLossPct)
	}
	return nil
}

// shapingTimeout is the timeout for each traffic shaping command.
const shapingTimeout = 10 * time.Second

// NetworkConditionController adds and removes latency and packet loss on
// the interface used by the default route using tc-netem. The zero value
// is invalid; please, use [NewNetworkConditionController] to construct.
//
// Apply and Reset are best effort: they log failures and do not return
// errors, so that a broken shaping setup does not stop a run.
type NetworkConditionController struct {
	config *Config
	logger Logger
	tool   ToolAdapter

	// applied indicates that Apply added a discipline that we did not reset.
	applied bool
}

// NewNetworkConditionController creates a new [NetworkConditionController].
func NewNetworkConditionController(config *Config, tool ToolAdapter, logger Logger) *NetworkConditionController {
	return &NetworkConditionController{
		config:  config,
		logger:  logger,
		tool:    tool,
		applied: false,
	}
}

// Apply adds the given impairment to the egress interface. We first add a
// netem discipline with the delay and then change the same discipline to
// also include the packet loss. If a previous impairment was not reset, we
// reset it first, because adding twice is not valid.
func (nc *NetworkConditionController) Apply(ctx context.Context, spec NetworkImpairmentSpec) {
	if err := spec.Validate(); err != nil {
		nc.logger.Errorf("%s", fmt.Errorf("%w: %w", ErrImpairmentControl, err))
		return
	}
	if nc.applied {
		nc.Reset(ctx)
	}
	iface, err := nc.egressInterface(ctx)
	if err != nil {
		nc.logger.Errorf("%s", fmt.Errorf("%w: apply: %w", ErrImpairmentControl, err))
		return
	}

	delay := strconv.Itoa(spec.LatencyMS) + "ms"
	loss := strconv.FormatFloat(spec.PacketLossPct, 'f', -1, 64) + "%"

	if err := nc.tc(ctx, "qdisc", "add", "dev", iface, "root", "netem", "delay", delay); err != nil {
		nc.logger.Errorf("%s", fmt.Errorf("%w: add delay on %s: %w", ErrImpairmentControl, iface, err))
		return
	}
	nc.applied = true

	// netem change replaces all the parameters, so we repeat the delay
	if err := nc.tc(ctx, "qdisc", "change", "dev", iface, "root", "netem", "delay", delay, "loss", loss); err != nil {
		nc.logger.Errorf("%s", fmt.Errorf("%w: add loss on %s: %w", ErrImpairmentControl, iface, err))
		return
	}

	nc.logger.Infof("netbench: network conditions on %s: %d ms latency, %s packet loss", iface, spec.LatencyMS, loss)
}

// Reset removes the root discipline from the egress interface. It is
// safe to call this method when no impairment is active.
func (nc *NetworkConditionController) Reset(ctx context.Context) {
	nc.applied = false
	iface, err := nc.egressInterface(ctx)
	if err != nil {
		nc.logger.Errorf("%s", fmt.Errorf("%w: reset: %w", ErrImpairmentControl, err))
		return
	}
	if err := nc.tc(ctx, "qdisc", "del", "dev", iface, "root"); err != nil {
		// this happens routinely when there's nothing to delete
		nc.logger.Debugf("netbench: reset %s: %s", iface, err.Error())
		return
	}
	nc.logger.Infof("netbench: network conditions on %s reset to normal", iface)
}

// Status returns the traffic shaping configuration of the egress interface.
func (nc *NetworkConditionController) Status(ctx context.Context) (string, error) {
	iface, err := nc.egressInterface(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: status: %w", ErrImpairmentControl, err)
	}
	output, err := invokeAndCheck(ctx, nc.tool, shapingTimeout, "tc", "qdisc", "show", "dev", iface)
	if err != nil {
		return "", fmt.Errorf("%w: status: %w", ErrImpairmentControl, err)
	}
	return output, nil
}

// Shaped returns whether the egress interface has a netem discipline.
func (nc *NetworkConditionController) Shaped(ctx context.Context) (bool, error) {
	status, err := nc.Status(ctx)
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(status, "\n") {
		tokens := strings.Fields(line)
		if len(tokens) >= 2 && tokens[0] == "qdisc" && tokens[1] == "netem" {
			return true, nil
		}
	}
	return false, nil
}

// egressInterface returns the interface of the default route. We do
// not cache the result because the default route may change.
func (nc *NetworkConditionController) egressInterface(ctx context.Context) (string, error) {
	output, err := invokeAndCheck(ctx, nc.tool, shapingTimeout, "ip", "route", "show", "default")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(output, "\n") {
		tokens := strings.Fields(line)
		if len(tokens) <= 0 || tokens[0] != "default" {
			continue
		}
		for idx := 1; idx < len(tokens)-1; idx++ {
			if tokens[idx] == "dev" {
				return tokens[idx+1], nil
			}
		}
	}
	return "", ErrNoDefaultRoute
}

// tc runs the traffic control tool, using sudo if configured.
func (nc *NetworkConditionController) tc(ctx context.Context, args ...string) error {
	command := "tc"
	if nc.config.Sudo {
		command, args = "sudo", append([]string{"tc"}, args...)
	}
	_, err := invokeAndCheck(ctx, nc.tool, shapingTimeout, command, args...)
	return err
}
