package testutil

// Canned native command output captured from real hosts, trimmed to the
// parts the backends parse. Windows samples keep their CRLF line endings.

// NetshProfiles is `netsh wlan show profiles` with two all-user profiles.
const NetshProfiles = "\r\n" +
	"Profiles on interface Wi-Fi:\r\n" +
	"\r\n" +
	"Group policy profiles (read only)\r\n" +
	"---------------------------------\r\n" +
	"    <None>\r\n" +
	"\r\n" +
	"User profiles\r\n" +
	"-------------\r\n" +
	"    All User Profile     : HomeNet\r\n" +
	"    All User Profile     : Coffee Shop: 2nd Floor\r\n" +
	"\r\n"

// NetshProfilesEmpty lists no user profiles.
const NetshProfilesEmpty = "\r\n" +
	"Profiles on interface Wi-Fi:\r\n" +
	"\r\n" +
	"User profiles\r\n" +
	"-------------\r\n" +
	"    <None>\r\n"

// NetshProfileDetail renders `netsh wlan show profile <name> key=clear` for a WPA2 profile.
func NetshProfileDetail(name, key string) string {
	return "\r\n" +
		"Profile " + name + " on interface Wi-Fi:\r\n" +
		"=======================================================================\r\n" +
		"\r\n" +
		"Applied: All User Profile\r\n" +
		"\r\n" +
		"Profile information\r\n" +
		"-------------------\r\n" +
		"    Version                : 1\r\n" +
		"    Type                   : Wireless LAN\r\n" +
		"    Name                   : " + name + "\r\n" +
		"\r\n" +
		"Security settings\r\n" +
		"-----------------\r\n" +
		"    Authentication         : WPA2-Personal\r\n" +
		"    Cipher                 : CCMP\r\n" +
		"    Security key           : Present\r\n" +
		"    Key Content            : " + key + "\r\n"
}

// NetshOpenProfileDetail is a profile with no stored key.
const NetshOpenProfileDetail = "\r\n" +
	"Security settings\r\n" +
	"-----------------\r\n" +
	"    Authentication         : Open\r\n" +
	"    Cipher                 : None\r\n" +
	"    Security key           : Absent\r\n"

// NMKeyfile renders a NetworkManager keyfile; an empty psk omits the line.
func NMKeyfile(id, ssid, psk string) string {
	out := "[connection]\n" +
		"id=" + id + "\n" +
		"uuid=0b7f6f38-58e5-4ad2-9b8e-6f3f2c1a4d11\n" +
		"type=wifi\n" +
		"\n" +
		"[wifi]\n" +
		"mode=infrastructure\n" +
		"bssid=AA:BB:CC:DD:EE:FF\n" +
		"ssid=" + ssid + "\n" +
		"\n"
	if psk == "" {
		return out + "[ipv4]\nmethod=auto\n"
	}
	return out +
		"[wifi-security]\n" +
		"key-mgmt=wpa-psk\n" +
		"psk-flags=0\n" +
		"psk=" + psk + "\n" +
		"\n" +
		"[ipv4]\n" +
		"method=auto\n"
}

// AirportScan is `airport -s` with two visible networks.
const AirportScan = "                            SSID BSSID             RSSI CHANNEL HT CC SECURITY (auth/unicast/group)\n" +
	"                               A aa:bb:cc:dd:ee:01 -51  6       Y  US WPA2(PSK/AES/AES)\n" +
	"                               B aa:bb:cc:dd:ee:02 -70  36      Y  US WPA2(PSK/AES/AES)\n"

// PreferredNetworks is `networksetup -listpreferredwirelessnetworks en0`.
const PreferredNetworks = "Preferred networks on en0:\n" +
	"\tB\n" +
	"\tC\n"

// SecurityPassword renders the stderr of `security find-generic-password -ga`.
func SecurityPassword(ssid, password string) string {
	return "keychain: \"/Library/Keychains/System.keychain\"\n" +
		"version: 512\n" +
		"class: \"genp\"\n" +
		"attributes:\n" +
		"    \"acct\"<blob>=\"" + ssid + "\"\n" +
		"    \"svce\"<blob>=\"AirPort\"\n" +
		"password: \"" + password + "\"\n"
}
