// internal/catalog/lambda.go
package catalog

import "fmt"

// Lambda returns the register map of the Lambda heat-pump controller.
// Each call returns fresh descriptors; pass them to New before use.
func Lambda() []Descriptor {
	var ds []Descriptor

	// ---- General Ambient ----
	ds = append(ds,
		errorNumber("Ambient Error Number", GroupAmbient, 0),
		enum("Ambient Operating State", GroupAmbient, 1, Uint16, ambientStates),
		temperature("Ambient Temperature", GroupAmbient, 2, 0.1),
		temperature("Ambient Temperature 1h", GroupAmbient, 3, 0.1),
		temperature("Ambient Temperature Calculated", GroupAmbient, 4, 0.1),
	)

	// ---- General E-Manager ----
	ds = append(ds,
		errorNumber("E-Manager Error Number", GroupEManager, 100),
		enum("E-Manager Operating State", GroupEManager, 101, Uint16, eManagerStates),
		power("E-Manager Actual Power", GroupEManager, 102),
		power("E-Manager Actual Power Consumption", GroupEManager, 103),
		power("E-Manager Power Consumption Setpoint", GroupEManager, 104),
	)

	// ---- Heat Pump No. 1 ----
	ds = append(ds,
		enum("Heat Pump 1 Error State", GroupHeatPump1, 1000, Uint16, heatPumpErrorStates),
		errorNumber("Heat Pump 1 Error Number", GroupHeatPump1, 1001),
		enum("Heat Pump 1 State", GroupHeatPump1, 1002, Uint16, heatPumpStates),
		enum("Heat Pump 1 Operating State", GroupHeatPump1, 1003, Uint16, heatPumpOperatingStates),
		temperature("Heat Pump 1 Flow Line Temperature", GroupHeatPump1, 1004, 0.01),
		temperature("Heat Pump 1 Return Line Temperature", GroupHeatPump1, 1005, 0.01),
		Descriptor{
			Name: "Heat Pump 1 Volume Flow Heat Sink", Group: GroupHeatPump1,
			Registers: Single(1006), DataType: Int16, Scale: 1, Precision: 1,
			Unit: "l/h", StateClass: "total",
		},
		temperature("Heat Pump 1 Energy Source Inlet Temperature", GroupHeatPump1, 1007, 0.01),
		temperature("Heat Pump 1 Energy Source Outlet Temperature", GroupHeatPump1, 1008, 0.01),
		Descriptor{
			Name: "Heat Pump 1 Volume Flow Energy Source", Group: GroupHeatPump1,
			Registers: Single(1009), DataType: Int16, Scale: 0.01, Precision: 1,
			Unit: "l/min", StateClass: "measurement",
		},
		Descriptor{
			Name: "Heat Pump 1 Compressor Unit Rating", Group: GroupHeatPump1,
			Registers: Single(1010), DataType: Uint16, Scale: 0.01, Precision: 0,
			Unit: "%", StateClass: "total",
		},
		Descriptor{
			Name: "Heat Pump 1 Actual Heating Capacity", Group: GroupHeatPump1,
			Registers: Single(1011), DataType: Int16, Scale: 0.1, Precision: 1,
			Unit: "kW", StateClass: "measurement",
		},
		power("Heat Pump 1 Inverter Power Consumption", GroupHeatPump1, 1012),
		Descriptor{
			Name: "Heat Pump 1 COP", Group: GroupHeatPump1,
			Registers: Single(1013), DataType: Int16, Scale: 0.01, Precision: 2,
			StateClass: "total",
		},
		enum("Heat Pump 1 Request Type", GroupHeatPump1, 1015, Int16, heatPumpRequestTypes),
		temperature("Heat Pump 1 Requested Flow Line Temperature", GroupHeatPump1, 1016, 0.1),
		temperature("Heat Pump 1 Requested Return Line Temperature", GroupHeatPump1, 1017, 0.1),
		temperature("Heat Pump 1 Requested Flow to Return Line Temperature Difference", GroupHeatPump1, 1018, 0.1),
		counter("Heat Pump 1 Relais State 2nd Heating Stage", GroupHeatPump1, 1019),
		energy("Heat Pump 1 Compressor Power Consumption Accumulated", GroupHeatPump1, 1020, 1021),
		energy("Heat Pump 1 Compressor Thermal Energy Output Accumulated", GroupHeatPump1, 1022, 1023),
	)

	// ---- Boiler ----
	ds = append(ds,
		errorNumber("Boiler Error Number", GroupBoiler, 2000),
		enum("Boiler Operating State", GroupBoiler, 2001, Uint16, boilerStates),
		temperature("Boiler Actual High Temperature", GroupBoiler, 2002, 0.1),
		temperature("Boiler Actual Low Temperature", GroupBoiler, 2003, 0.1),
		temperature("Boiler Set Temperature", GroupBoiler, 2050, 0.1),
	)

	// ---- Buffer ----
	ds = append(ds,
		errorNumber("Buffer Error Number", GroupBuffer, 3000),
		enum("Buffer Operating State", GroupBuffer, 3001, Uint16, bufferStates),
		temperature("Buffer Actual High Temperature", GroupBuffer, 3002, 0.1),
		temperature("Buffer Actual Low Temperature", GroupBuffer, 3003, 0.1),
		temperature("Buffer Set Temperature", GroupBuffer, 3050, 0.1),
	)

	// Solar (4000..4051) is not polled: the module is absent on supported installs.

	// ---- Heating Circuits ----
	ds = append(ds, heatingCircuit(1, GroupHeatingCircuit1)...)
	ds = append(ds, heatingCircuit(2, GroupHeatingCircuit2)...)
	ds = append(ds, heatingCircuit(3, GroupHeatingCircuit3)...)

	return ds
}

// heatingCircuit builds circuit n; circuits are laid out 100 registers apart from 5000.
func heatingCircuit(n int, g Group) []Descriptor {
	base := uint16(5000 + 100*(n-1))
	name := func(s string) string { return fmt.Sprintf("Heating Circuit %d %s", n, s) }

	return []Descriptor{
		errorNumber(name("Error Number"), g, base),
		enum(name("Operating State"), g, base+1, Uint16, circuitStates),
		temperature(name("Flow Line Temperature"), g, base+2, 0.1),
		temperature(name("Return Line Temperature"), g, base+3, 0.1),
		temperature(name("Room Device Temperature"), g, base+4, 0.1),
		temperature(name("Set Flow Line Temperature"), g, base+5, 0.1),
		enum(name("Operating Mode"), g, base+6, Int16, circuitModes),
		temperature(name("Set Flow Line Offset Temperature"), g, base+50, 0.1),
		temperature(name("Set Heating Mode Room Temperature"), g, base+51, 0.1),
		temperature(name("Set Cooling Mode Room Temperature"), g, base+52, 0.1),
	}
}

// ---- entry shapes ----

// counter is a plain unitless int16 register.
func counter(name string, g Group, reg uint16) Descriptor {
	return Descriptor{
		Name: name, Group: g, Registers: Single(reg), DataType: Int16,
		Scale: 1, StateClass: "total",
	}
}

func errorNumber(name string, g Group, reg uint16) Descriptor {
	return counter(name, g, reg)
}

// enum owns its labels; the shared tables below are never handed out.
func enum(name string, g Group, reg uint16, dt DataType, labels []string) Descriptor {
	return Descriptor{
		Name: name, Group: g, Registers: Single(reg), DataType: dt,
		Scale: 1, StateClass: "total", DescriptionMap: append([]string(nil), labels...),
	}
}

func temperature(name string, g Group, reg uint16, scale float64) Descriptor {
	return Descriptor{
		Name: name, Group: g, Registers: Single(reg), DataType: Int16,
		Scale: scale, Precision: 1,
		Unit: "°C", DeviceClass: "temperature", StateClass: "measurement",
	}
}

func power(name string, g Group, reg uint16) Descriptor {
	return Descriptor{
		Name: name, Group: g, Registers: Single(reg), DataType: Int16,
		Scale: 1, Unit: "W", StateClass: "total",
	}
}

func energy(name string, g Group, first, second uint16) Descriptor {
	return Descriptor{
		Name: name, Group: g, Registers: Pair(first, second), DataType: Int32,
		Scale: 1, Unit: "Wh", DeviceClass: "energy", StateClass: "total_increasing",
	}
}

// ---- description maps ----

var (
	ambientStates  = []string{"Off", "Automatik", "Manual", "Error"}
	eManagerStates = []string{"Off", "Automatik", "Manual", "Error", "Offline"}

	heatPumpErrorStates = []string{"OK", "Message", "Warnung", "Alarm", "Fault"}

	heatPumpStates = []string{
		"Init", "Reference", "Restart-Block", "Ready", "Start Pumps", "Start Compressor", "Pre-Regulation", "Regulation",
		"Not Used", "Cooling", "Defrosting", "Not Used", "Not Used", "Not Used", "Not Used", "Not Used", "Not Used",
		"Not Used", "Not Used", "Not Used", "Stopping", "Not Used", "Not Used", "Not Used", "Not Used", "Not Used",
		"Not Used", "Not Used", "Not Used", "Not Used", "Not Used", "Fault-Lock", "Alarm-Block", "Not Used", "Not Used",
		"Not Used", "Not Used", "Not Used", "Not Used", "Error-Reset",
	}

	heatPumpOperatingStates = []string{
		"Standby", "Central Heating", "Domestic Hot Water", "Cold Climate", "Circulate", "Defrost", "Off", "Frost",
		"Standby-Frost", "Not used", "Summer", "Holiday", "Error", "Warning", "Info-Message", "Time-Block", "Release-Block",
		"Mintemp-Block", "Firmware-Download",
	}

	heatPumpRequestTypes = []string{"No Request", "Flow Pump Circulation", "Central Heating", "Central Cooling", "Domestic Hot Water"}

	boilerStates = []string{
		"Standby", "Domestic Hot Water", "Legio", "Summer", "Frost", "Holiday", "Prio-Stop", "Error", "Off", "Prompt-DHW",
		"Trailing-Stop", "Temp-Lock", "Standby-Frost",
	}

	bufferStates = []string{"Standby", "Heating", "Cooling", "Summer", "Frost", "Holiday", "Prio-Stop", "Error", "Off", "Standby-Frost"}

	circuitStates = []string{
		"Heating", "Eco", "Cooling", "Floor-dry", "Frost", "Max-Temp", "Error", "Service", "Holiday", "Central Heating Summer",
		"Central Cooling Winter", "Prio-Stop", "Off", "Release-Off", "Time-Off", "Standby", "Standby-Heating", "Standby-Eco",
		"Standby-Cooling", "Standby-Frost", "Standby-Floor-dry",
	}

	circuitModes = []string{"Off", "Manual", "Automatik", "Auto-Heating", "Auto-Cooling", "Frost", "Summer", "Floor-dry"}
)
