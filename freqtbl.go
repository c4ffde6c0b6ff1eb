package jitterz

// FreqTbl is the table of known TSC frequencies.
//
// key: <cpu.X86.Signature>_<cpu.X86.SteppingID>
// value: frequency (Hz)
//
// It seeds the first calibration iteration when sysfs has no cpufreq
// entry for the core (VMs, containers without /sys), so a good entry
// saves a whole retry.
var FreqTbl = map[string]float64{
	"06_9EH_2": 2999998888.73,
	"06_55H_5": 3700008733,
}
