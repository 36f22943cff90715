package catalog

var products = []Product{
	{ID: "1", Name: "Wireless Headphones", PriceCents: 7999, Image: "/wireless-headphones.png", Rating: 4.5},
	{ID: "2", Name: "Smart Watch", PriceCents: 19999, Image: "/smartwatch-lifestyle.png", Rating: 4.8},
	{ID: "3", Name: "USB-C Cable", PriceCents: 1299, Image: "/usb-c-cable.jpg", Rating: 4.2},
	{ID: "4", Name: "Phone Case", PriceCents: 2499, Image: "/colorful-phone-case.jpg", Rating: 4.6},
	{ID: "5", Name: "Screen Protector", PriceCents: 999, Image: "/screen-protector.png", Rating: 4.3},
	{ID: "6", Name: "Portable Charger", PriceCents: 3499, Image: "/portable-charger-lifestyle.png", Rating: 4.7},
	{ID: "7", Name: "Bluetooth Speaker", PriceCents: 4999, Image: "/bluetooth-speaker.jpg", Rating: 4.4},
	{ID: "8", Name: "Webcam HD", PriceCents: 5999, Image: "/hd-webcam.jpg", Rating: 4.5},
	{ID: "9", Name: "Wireless Mouse", PriceCents: 2999, Image: "/wireless-mouse.png", Rating: 4.4},
	{ID: "10", Name: "Mechanical Keyboard", PriceCents: 8999, Image: "/mechanical-keyboard.png", Rating: 4.7},
	{ID: "11", Name: "Monitor Stand", PriceCents: 3999, Image: "/monitor-stand.jpg", Rating: 4.3},
	{ID: "12", Name: "Desk Lamp LED", PriceCents: 4499, Image: "/desk-lamp-led.jpg", Rating: 4.6},
	{ID: "13", Name: "Phone Stand", PriceCents: 1499, Image: "/phone-stand.jpg", Rating: 4.2},
	{ID: "14", Name: "USB Hub", PriceCents: 2299, Image: "/usb-hub.png", Rating: 4.4},
	{ID: "15", Name: "Laptop Backpack", PriceCents: 5499, Image: "/laptop-backpack.png", Rating: 4.8},
	{ID: "16", Name: "Wireless Charger", PriceCents: 3199, Image: "/wireless-charger.png", Rating: 4.5},
	{ID: "17", Name: "Screen Privacy Filter", PriceCents: 1899, Image: "/screen-privacy-filter.jpg", Rating: 4.1},
	{ID: "18", Name: "Cable Organizer", PriceCents: 1199, Image: "/cable-organizer.png", Rating: 4.3},
	{ID: "19", Name: "Phone Cooling Fan", PriceCents: 2799, Image: "/phone-cooling-fan.jpg", Rating: 4.6},
	{ID: "20", Name: "Tempered Glass Screen Protector", PriceCents: 1699, Image: "/tempered-glass-screen.jpg", Rating: 4.5},
	{ID: "21", Name: "MacBook Case", PriceCents: 3599, Image: "/macbook-case.jpg", Rating: 4.7},
	{ID: "22", Name: "Earbuds Case Cover", PriceCents: 799, Image: "/stylish-earbuds-case.png", Rating: 4.2},
	{ID: "23", Name: "Screen Cleaning Kit", PriceCents: 1399, Image: "/screen-cleaning-kit.jpg", Rating: 4.4},
	{ID: "24", Name: "Gaming Mouse Pad", PriceCents: 1999, Image: "/gaming-mouse-pad.jpg", Rating: 4.6},
}
