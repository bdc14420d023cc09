package payroll

var ApplyAdjustment = applyAdjustment
